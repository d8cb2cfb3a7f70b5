package models

import "time"

// System wallet credit sources.
const (
	SourceAdminCollection     = "admin_collection"
	SourceAttendantSubmission = "attendant_submission"
)

// SystemWalletID is the fixed id of the singleton company aggregate.
const SystemWalletID = "system"

// SystemWallet is the company-wide aggregate, credited and debited in
// step with attendant wallet changes. All fields are integer cents and
// clamped at zero after reversals.
type SystemWallet struct {
	ID                        string    `bson:"id" json:"id"`
	TotalRevenue              int64     `bson:"totalRevenue" json:"totalRevenue"`
	TotalCompanyShare         int64     `bson:"totalCompanyShare" json:"totalCompanyShare"`
	TotalAttendantPayments    int64     `bson:"totalAttendantPayments" json:"totalAttendantPayments"`
	TotalAdminCollections     int64     `bson:"totalAdminCollections" json:"totalAdminCollections"`
	TotalAttendantCollections int64     `bson:"totalAttendantCollections" json:"totalAttendantCollections"`
	CurrentBalance            int64     `bson:"currentBalance" json:"currentBalance"`
	Version                   int64     `bson:"version" json:"-"`
	UpdatedAt                 time.Time `bson:"updatedAt" json:"updatedAt"`
}
