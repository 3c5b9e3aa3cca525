package model

import "gorm.io/gorm"

// Models lists every table owned by the application, in migration order.
var Models = []interface{}{
	&Doctor{},
	&Disorder{},
	&TreatmentPlan{},
	&Patient{},
	&AuditLog{},
}

// AutoMigrate creates or updates the schema for all application tables.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(Models...)
}
