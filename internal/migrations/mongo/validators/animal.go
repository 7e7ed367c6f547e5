package validators

import "go.mongodb.org/mongo-driver/bson"

var enclosureTypes = []string{"Safari", "Bird Sanctuary", "Reptile House"}

var AnimalValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"name",
			"species",
			"date_of_birth",
			"gender",
			"health_status",
			"arrival_date",
			"createdAt",
		},
		"additionalProperties": true,
		"properties": bson.M{
			"_id":     bson.M{"bsonType": "objectId"},
			"name":    bson.M{"bsonType": "string", "minLength": 1, "maxLength": 100},
			"species": bson.M{"bsonType": "string", "minLength": 1, "maxLength": 100},
			"date_of_birth": bson.M{
				"bsonType": "string",
				"pattern":  `^\d{4}-\d{2}-\d{2}`,
			},
			"gender": bson.M{"enum": []string{"Male", "Female"}},
			"health_status": bson.M{
				"enum": []string{"Healthy", "Under Observation", "Requires Attention"},
			},
			"imageUrl":      bson.M{"bsonType": "string"},
			"imagePublicId": bson.M{"bsonType": "string"},
			"description":   bson.M{"bsonType": "string", "maxLength": 2000},
			"arrival_date":  bson.M{"bsonType": "string"},
			"enclosure": bson.M{
				"bsonType": "object",
				"required": []string{"name", "type"},
				"properties": bson.M{
					"name":     bson.M{"bsonType": "string"},
					"type":     bson.M{"enum": enclosureTypes},
					"location": bson.M{"bsonType": "string"},
				},
			},
			"createdAt": bson.M{"bsonType": "date"},
			"updatedAt": bson.M{"bsonType": "date"},
		},
	},
}
