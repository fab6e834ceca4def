package repositories

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"loan-origination.backend/internal/domain/entities"
	"loan-origination.backend/pkg/utils"
)

func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = utils.GenerateUUIDv7()
	}
}

func uuidPtr(n uuid.NullUUID) *uuid.UUID {
	if !n.Valid {
		return nil
	}
	id := n.UUID
	return &id
}

func nullUUID(p *uuid.UUID) uuid.NullUUID {
	if p == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: *p, Valid: true}
}

// applyScope turns an ApplicationScope into a WHERE clause on the loan_applications columns
func applyScope(db *gorm.DB, scope entities.ApplicationScope, prefix string) *gorm.DB {
	branch := prefix + "branch_code"
	expert := prefix + "assigned_expert_id"
	switch {
	case scope.DenyAll:
		return db.Where("1 = 0")
	case scope.Unrestricted:
		return db
	case scope.BranchCode != "" && scope.OrAssignedExpertID.Valid:
		return db.Where("("+branch+" = ? OR "+expert+" = ?)", scope.BranchCode, scope.OrAssignedExpertID.UUID)
	case scope.BranchCode != "":
		return db.Where(branch+" = ?", scope.BranchCode)
	case scope.OrAssignedExpertID.Valid:
		return db.Where(expert+" = ?", scope.OrAssignedExpertID.UUID)
	}
	return db.Where("1 = 0")
}
