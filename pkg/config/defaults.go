package config

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	StaffLookupByID         = "id"
	StaffLookupByEmployeeID = "employeeId"

	DefaultMaxUploadMemory = 8 << 20
)
