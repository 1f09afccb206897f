package models

import (
	"github.com/wms/backend/internal/domain/organization"
)

// DepartmentModel is the persistence model for departments
type DepartmentModel struct {
	BaseModel
	Code        string `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name        string `gorm:"type:varchar(200);not null"`
	Description string `gorm:"type:text"`
	IsActive    bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (DepartmentModel) TableName() string {
	return "departments"
}

// ToDomain converts the model to a domain Department
func (m *DepartmentModel) ToDomain() *organization.Department {
	return &organization.Department{
		BaseEntity:  m.BaseModel.ToDomain(),
		Code:        m.Code,
		Name:        m.Name,
		Description: m.Description,
		IsActive:    m.IsActive,
	}
}

// StoreModel is the persistence model for stores
type StoreModel struct {
	BaseModel
	DepartmentID int64  `gorm:"not null;index"`
	Code         string `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name         string `gorm:"type:varchar(200);not null"`
	Description  string `gorm:"type:text"`
	IsActive     bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (StoreModel) TableName() string {
	return "stores"
}

// ToDomain converts the model to a domain Store
func (m *StoreModel) ToDomain() *organization.Store {
	return &organization.Store{
		BaseEntity:   m.BaseModel.ToDomain(),
		DepartmentID: m.DepartmentID,
		Code:         m.Code,
		Name:         m.Name,
		Description:  m.Description,
		IsActive:     m.IsActive,
	}
}

// FromDomain populates the model from a domain Store
func (m *StoreModel) FromDomain(s *organization.Store) {
	m.FromDomainBaseEntity(s.BaseEntity)
	m.DepartmentID = s.DepartmentID
	m.Code = s.Code
	m.Name = s.Name
	m.Description = s.Description
	m.IsActive = s.IsActive
}

// UserModel is the persistence model for users
type UserModel struct {
	BaseModel
	Username     string `gorm:"type:varchar(100);not null;uniqueIndex"`
	FullName     string `gorm:"type:varchar(200)"`
	Email        string `gorm:"type:varchar(200)"`
	Role         string `gorm:"type:varchar(20);not null;default:user"`
	DepartmentID *int64 `gorm:"index"`
	StoreID      *int64 `gorm:"index"`
	IsActive     bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the model to a domain User
func (m *UserModel) ToDomain() *organization.User {
	return &organization.User{
		BaseEntity:   m.BaseModel.ToDomain(),
		Username:     m.Username,
		FullName:     m.FullName,
		Email:        m.Email,
		Role:         organization.Role(m.Role),
		DepartmentID: m.DepartmentID,
		StoreID:      m.StoreID,
		IsActive:     m.IsActive,
	}
}

// FromDomain populates the model from a domain User
func (m *UserModel) FromDomain(u *organization.User) {
	m.FromDomainBaseEntity(u.BaseEntity)
	m.Username = u.Username
	m.FullName = u.FullName
	m.Email = u.Email
	m.Role = string(u.Role)
	m.DepartmentID = u.DepartmentID
	m.StoreID = u.StoreID
	m.IsActive = u.IsActive
}
