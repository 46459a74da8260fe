package db

import (
	"gorm.io/gorm"

	"helpdesk-service/internal/model"
)

// SeedDemoData inserts the responder roles and one demo user per role.
// It is a no-op on a database that already has roles.
func SeedDemoData(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.Role{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	roles := []model.Role{
		{Name: model.RoleCS, Description: "Customer Service representative - Can create and manage complaint tickets"},
		{Name: model.RoleTSO, Description: "Technical Support Officer Agent - Can assign and resolve technical issues"},
		{Name: model.RoleNOC, Description: "Network Operations Center - Can assign tickets and escalate issues"},
	}
	if err := db.Create(&roles).Error; err != nil {
		return err
	}

	users := []model.User{
		{Name: "CS Agent", Email: "cs@helpdesk.com", RoleID: roles[0].ID},
		{Name: "TSO Agent", Email: "tso@helpdesk.com", RoleID: roles[1].ID},
		{Name: "NOC Engineer", Email: "noc@helpdesk.com", RoleID: roles[2].ID},
	}
	return db.Create(&users).Error
}
