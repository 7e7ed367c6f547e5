package validators

import "go.mongodb.org/mongo-driver/bson"

var StaffValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"employeeId",
			"firstName",
			"lastName",
			"email",
			"password",
			"role",
			"department",
			"isActive",
			"createdAt",
		},
		"additionalProperties": true,
		"properties": bson.M{
			"_id":        bson.M{"bsonType": "objectId"},
			"employeeId": bson.M{"bsonType": "string", "minLength": 1, "maxLength": 50},
			"firstName":  bson.M{"bsonType": "string", "minLength": 1, "maxLength": 50},
			"lastName":   bson.M{"bsonType": "string", "minLength": 1, "maxLength": 50},
			"email":      bson.M{"bsonType": "string"},
			"password":   bson.M{"bsonType": "string"},
			"phone":      bson.M{"bsonType": "string"},
			"role": bson.M{
				"enum": []string{"Admin", "Veterinarian", "Caretaker", "Volunteer", "Receptionist"},
			},
			"department": bson.M{
				"enum": []string{"Medical", "Operations", "Adoption", "Administration", "Visitor Services"},
			},
			"isActive":    bson.M{"bsonType": "bool"},
			"hireDate":    bson.M{"bsonType": "string"},
			"permissions": bson.M{"bsonType": "array", "items": bson.M{"bsonType": "string"}},
			"shift": bson.M{
				"bsonType": "object",
				"properties": bson.M{
					"startTime": bson.M{"bsonType": "string", "pattern": `^([01]\d|2[0-3]):[0-5]\d$`},
					"endTime":   bson.M{"bsonType": "string", "pattern": `^([01]\d|2[0-3]):[0-5]\d$`},
					"workDays":  bson.M{"bsonType": "array", "maxItems": 7},
				},
			},
			"emergencyContact": bson.M{"bsonType": "object"},
			"refreshToken":     bson.M{"bsonType": "string"},
			"lastLoginAt":      bson.M{"bsonType": "date"},
			"createdAt":        bson.M{"bsonType": "date"},
			"updatedAt":        bson.M{"bsonType": "date"},
		},
	},
}
