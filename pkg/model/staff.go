package model

import "time"

const (
	RoleAdmin        = "Admin"
	RoleVeterinarian = "Veterinarian"
	RoleCaretaker    = "Caretaker"
	RoleVolunteer    = "Volunteer"
	RoleReceptionist = "Receptionist"

	DepartmentMedical         = "Medical"
	DepartmentOperations      = "Operations"
	DepartmentAdoption        = "Adoption"
	DepartmentAdministration  = "Administration"
	DepartmentVisitorServices = "Visitor Services"
)

type Shift struct {
	StartTime string   `json:"startTime" bson:"startTime" validate:"required,hhmm"`
	EndTime   string   `json:"endTime" bson:"endTime" validate:"required,hhmm"`
	WorkDays  []string `json:"workDays" bson:"workDays" validate:"required,min=1,max=7,dive,weekday"`
}

type EmergencyContact struct {
	Name         string `json:"name" bson:"name" validate:"required,min=1,max=100"`
	Phone        string `json:"phone" bson:"phone" validate:"required,min=1,max=20"`
	Relationship string `json:"relationship" bson:"relationship" validate:"required,min=1,max=50"`
}

// StaffRecord is the persisted staff document. It carries credentials and
// must be converted with View before leaving the service layer.
type StaffRecord struct {
	ID               string           `bson:"_id,omitempty"`
	EmployeeID       string           `bson:"employeeId"`
	FirstName        string           `bson:"firstName"`
	LastName         string           `bson:"lastName"`
	Email            string           `bson:"email"`
	Phone            string           `bson:"phone"`
	Role             string           `bson:"role"`
	Department       string           `bson:"department"`
	IsActive         bool             `bson:"isActive"`
	HireDate         string           `bson:"hireDate"`
	Permissions      []string         `bson:"permissions"`
	Shift            Shift            `bson:"shift"`
	EmergencyContact EmergencyContact `bson:"emergencyContact"`
	ImageURL         string           `bson:"imageUrl,omitempty"`
	ImagePublicID    string           `bson:"imagePublicId,omitempty"`
	PasswordHash     string           `bson:"password"`
	RefreshTokenHash string           `bson:"refreshToken,omitempty"`
	LastLoginAt      *time.Time       `bson:"lastLoginAt,omitempty"`
	CreatedAt        time.Time        `bson:"createdAt"`
	UpdatedAt        time.Time        `bson:"updatedAt"`
}

// Staff is the public view of a staff member.
type Staff struct {
	ID               string           `json:"id"`
	EmployeeID       string           `json:"employeeId"`
	FirstName        string           `json:"firstName"`
	LastName         string           `json:"lastName"`
	Email            string           `json:"email"`
	Phone            string           `json:"phone"`
	Role             string           `json:"role"`
	Department       string           `json:"department"`
	IsActive         bool             `json:"isActive"`
	HireDate         string           `json:"hireDate"`
	Permissions      []string         `json:"permissions"`
	Shift            Shift            `json:"shift"`
	EmergencyContact EmergencyContact `json:"emergencyContact"`
	ImageURL         string           `json:"imageUrl,omitempty"`
	LastLoginAt      *time.Time       `json:"lastLoginAt,omitempty"`
	CreatedAt        time.Time        `json:"createdAt"`
	UpdatedAt        time.Time        `json:"updatedAt"`
}

func (r *StaffRecord) View() *Staff {
	if r == nil {
		return nil
	}
	permissions := r.Permissions
	if permissions == nil {
		permissions = []string{}
	}
	return &Staff{
		ID:               r.ID,
		EmployeeID:       r.EmployeeID,
		FirstName:        r.FirstName,
		LastName:         r.LastName,
		Email:            r.Email,
		Phone:            r.Phone,
		Role:             r.Role,
		Department:       r.Department,
		IsActive:         r.IsActive,
		HireDate:         r.HireDate,
		Permissions:      permissions,
		Shift:            r.Shift,
		EmergencyContact: r.EmergencyContact,
		ImageURL:         r.ImageURL,
		LastLoginAt:      r.LastLoginAt,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
}

func StaffViews(records []*StaffRecord) []*Staff {
	views := make([]*Staff, 0, len(records))
	for _, r := range records {
		views = append(views, r.View())
	}
	return views
}

type StaffCreate struct {
	EmployeeID       string           `json:"employeeId" validate:"required,min=1,max=50"`
	FirstName        string           `json:"firstName" validate:"required,min=1,max=50"`
	LastName         string           `json:"lastName" validate:"required,min=1,max=50"`
	Email            string           `json:"email" validate:"required,email,max=254"`
	Password         string           `json:"password" validate:"required,min=8,max=72"`
	Phone            string           `json:"phone" validate:"required,min=1,max=20"`
	Role             string           `json:"role" validate:"required,oneof=Admin Veterinarian Caretaker Volunteer Receptionist"`
	Department       string           `json:"department" validate:"required,oneof=Medical Operations Adoption Administration 'Visitor Services'"`
	IsActive         *bool            `json:"isActive"`
	HireDate         string           `json:"hireDate" validate:"required,isodate"`
	Permissions      []string         `json:"permissions" validate:"omitempty,dive,permission"`
	Shift            Shift            `json:"shift"`
	EmergencyContact EmergencyContact `json:"emergencyContact"`
	ImageURL         string           `json:"imageUrl" validate:"omitempty,url"`
}

func (c *StaffCreate) ToRecord() *StaffRecord {
	active := true
	if c.IsActive != nil {
		active = *c.IsActive
	}
	return &StaffRecord{
		EmployeeID:       c.EmployeeID,
		FirstName:        c.FirstName,
		LastName:         c.LastName,
		Email:            c.Email,
		Phone:            c.Phone,
		Role:             c.Role,
		Department:       c.Department,
		IsActive:         active,
		HireDate:         c.HireDate,
		Permissions:      c.Permissions,
		Shift:            c.Shift,
		EmergencyContact: c.EmergencyContact,
		ImageURL:         c.ImageURL,
	}
}

// StaffUpdate is a partial update. Password is accepted in clear text and
// replaced by PasswordHash before persistence.
type StaffUpdate struct {
	EmployeeID       *string           `json:"employeeId" bson:"employeeId,omitempty" validate:"omitempty,min=1,max=50"`
	FirstName        *string           `json:"firstName" bson:"firstName,omitempty" validate:"omitempty,min=1,max=50"`
	LastName         *string           `json:"lastName" bson:"lastName,omitempty" validate:"omitempty,min=1,max=50"`
	Email            *string           `json:"email" bson:"email,omitempty" validate:"omitempty,email,max=254"`
	Password         *string           `json:"password" bson:"-" validate:"omitempty,min=8,max=72"`
	PasswordHash     *string           `json:"-" bson:"password,omitempty"`
	Phone            *string           `json:"phone" bson:"phone,omitempty" validate:"omitempty,min=1,max=20"`
	Role             *string           `json:"role" bson:"role,omitempty" validate:"omitempty,oneof=Admin Veterinarian Caretaker Volunteer Receptionist"`
	Department       *string           `json:"department" bson:"department,omitempty" validate:"omitempty,oneof=Medical Operations Adoption Administration 'Visitor Services'"`
	IsActive         *bool             `json:"isActive" bson:"isActive,omitempty"`
	HireDate         *string           `json:"hireDate" bson:"hireDate,omitempty" validate:"omitempty,isodate"`
	Permissions      *[]string         `json:"permissions" bson:"permissions,omitempty" validate:"omitempty,dive,permission"`
	Shift            *Shift            `json:"shift" bson:"shift,omitempty" validate:"omitempty"`
	EmergencyContact *EmergencyContact `json:"emergencyContact" bson:"emergencyContact,omitempty" validate:"omitempty"`
	ImageURL         *string           `json:"imageUrl" bson:"imageUrl,omitempty" validate:"omitempty,url"`
	ImagePublicID    *string           `json:"-" bson:"imagePublicId,omitempty"`
}

type StaffFilter struct {
	Role       string `json:"role" validate:"omitempty,max=50"`
	Department string `json:"department" validate:"omitempty,max=50"`
	Name       string `json:"name" validate:"omitempty,max=100"`
	IsActive   *bool  `json:"isActive"`
}
