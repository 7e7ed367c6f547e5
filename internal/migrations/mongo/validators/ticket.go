package validators

import "go.mongodb.org/mongo-driver/bson"

var TicketValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"visitorId",
			"enclosureType",
			"priceCategory",
			"priceAmount",
			"issuedAt",
			"expiresAt",
			"status",
		},
		"additionalProperties": true,
		"properties": bson.M{
			"_id": bson.M{"bsonType": "objectId"},
			"visitorId": bson.M{
				"bsonType": "array",
				"minItems": 1,
				"maxItems": 10,
				"items":    bson.M{"bsonType": "objectId"},
			},
			"enclosureType": bson.M{"enum": enclosureTypes},
			"priceCategory": bson.M{"enum": []string{"Adult", "Child"}},
			"priceAmount":   bson.M{"bsonType": []string{"double", "int", "long", "decimal"}, "minimum": 0},
			"issuedAt":      bson.M{"bsonType": "date"},
			"expiresAt":     bson.M{"bsonType": "date"},
			"status":        bson.M{"enum": []string{"Active", "Used", "Expired", "Cancelled"}},
			"entryTime":     bson.M{"bsonType": []string{"date", "null"}},
			"exitTime":      bson.M{"bsonType": []string{"date", "null"}},
			"createdAt":     bson.M{"bsonType": "date"},
			"updatedAt":     bson.M{"bsonType": "date"},
		},
	},
}
