package validators

import "go.mongodb.org/mongo-driver/bson"

var VisitorValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"name",
			"age",
			"email",
			"ageGroup",
			"nationality",
			"registeredAt",
			"totalVisits",
		},
		"additionalProperties": true,
		"properties": bson.M{
			"_id":          bson.M{"bsonType": "objectId"},
			"name":         bson.M{"bsonType": "string", "minLength": 3, "maxLength": 100},
			"age":          bson.M{"bsonType": []string{"int", "long"}, "minimum": 0, "maximum": 150},
			"email":        bson.M{"bsonType": "string"},
			"ageGroup":     bson.M{"enum": []string{"Child", "Adult"}},
			"nationality":  bson.M{"enum": []string{"Indian", "Foreigner"}},
			"phone":        bson.M{"bsonType": "string", "pattern": `^\d{10}$`},
			"registeredAt": bson.M{"bsonType": "date"},
			"totalVisits":  bson.M{"bsonType": []string{"int", "long"}, "minimum": 0},
			"createdAt":    bson.M{"bsonType": "date"},
			"updatedAt":    bson.M{"bsonType": "date"},
		},
	},
}
