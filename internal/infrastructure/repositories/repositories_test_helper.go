package repositories

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", t.Name(), time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err, "open sqlite")
	return db
}

func mustExec(t *testing.T, db *gorm.DB, q string, args ...interface{}) {
	t.Helper()
	require.NoError(t, db.Exec(q, args...).Error, "exec failed: query=%s", q)
}

func createUserTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE users (
		id TEXT PRIMARY KEY,
		username TEXT UNIQUE NOT NULL,
		full_name TEXT NOT NULL,
		email TEXT,
		password_hash TEXT NOT NULL,
		branch_code TEXT NOT NULL,
		role TEXT NOT NULL,
		is_active BOOLEAN NOT NULL DEFAULT 1,
		last_login_at DATETIME,
		created_at DATETIME,
		updated_at DATETIME,
		deleted_at DATETIME
	);`)
}

func createLoanApplicationTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE loan_applications (
		id TEXT PRIMARY KEY,
		application_ref TEXT UNIQUE NOT NULL,
		applicant_name TEXT NOT NULL,
		national_id TEXT NOT NULL,
		date_of_birth DATETIME NOT NULL,
		contact_phone TEXT,
		contact_email TEXT,
		product_code TEXT NOT NULL,
		requested_amount NUMERIC NOT NULL,
		tenure_months INTEGER NOT NULL,
		branch_code TEXT NOT NULL,
		created_by_user_id TEXT NOT NULL,
		status TEXT NOT NULL,
		assigned_expert_id TEXT,
		reviewed_by_ho_id TEXT,
		application_grade TEXT,
		expert_remarks TEXT,
		ho_remarks TEXT,
		remarks TEXT,
		cic_check_status TEXT NOT NULL DEFAULT 'NOT_CHECKED',
		cic_credit_score INTEGER,
		cic_risk_category TEXT,
		cic_bureau_reference TEXT,
		cic_recommendation TEXT,
		cic_key_factors TEXT,
		cic_checked_at DATETIME,
		cic_checked_by_user_id TEXT,
		created_at DATETIME,
		updated_at DATETIME
	);`)
}

func createApplicationEventTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE application_events (
		id TEXT PRIMARY KEY,
		application_id TEXT NOT NULL,
		from_status TEXT NOT NULL,
		to_status TEXT NOT NULL,
		actor_id TEXT NOT NULL,
		actor_role TEXT NOT NULL,
		remarks TEXT,
		created_at DATETIME
	);`)
}

func createCreditCheckTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE credit_checks (
		id TEXT PRIMARY KEY,
		application_id TEXT NOT NULL,
		requested_by_user_id TEXT NOT NULL,
		status TEXT NOT NULL,
		bureau_reference TEXT,
		score INTEGER,
		risk_band TEXT,
		raw_response TEXT,
		failure_reason TEXT,
		requested_at DATETIME NOT NULL,
		completed_at DATETIME
	);`)
}

func createCICTables(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE cic_customers (
		id TEXT PRIMARY KEY,
		national_id TEXT UNIQUE NOT NULL,
		full_name TEXT NOT NULL,
		date_of_birth DATETIME,
		gender TEXT,
		phone_number TEXT,
		email TEXT,
		address TEXT,
		city TEXT,
		province TEXT,
		employment_status TEXT NOT NULL,
		employer_name TEXT,
		monthly_income NUMERIC NOT NULL DEFAULT 0,
		years_employed INTEGER,
		current_credit_score INTEGER,
		previous_credit_score INTEGER,
		risk_category TEXT,
		score_last_updated DATETIME,
		total_credit_limit NUMERIC NOT NULL DEFAULT 0,
		total_outstanding_debt NUMERIC NOT NULL DEFAULT 0,
		total_assets_value NUMERIC NOT NULL DEFAULT 0,
		number_of_active_accounts INTEGER NOT NULL DEFAULT 0,
		number_of_closed_accounts INTEGER NOT NULL DEFAULT 0,
		number_of_delinquent_accounts INTEGER NOT NULL DEFAULT 0,
		first_credit_date DATETIME,
		has_bankruptcy BOOLEAN NOT NULL DEFAULT 0,
		has_court_judgment BOOLEAN NOT NULL DEFAULT 0,
		has_debt_restructuring BOOLEAN NOT NULL DEFAULT 0,
		is_blacklisted BOOLEAN NOT NULL DEFAULT 0,
		created_at DATETIME,
		updated_at DATETIME
	);`)
	mustExec(t, db, `CREATE TABLE cic_credit_accounts (
		id TEXT PRIMARY KEY,
		customer_id TEXT NOT NULL,
		account_number TEXT NOT NULL,
		lender_name TEXT NOT NULL,
		account_type TEXT NOT NULL,
		account_status TEXT NOT NULL,
		disbursement_date DATETIME NOT NULL,
		closure_date DATETIME,
		original_loan_amount NUMERIC NOT NULL DEFAULT 0,
		current_balance NUMERIC NOT NULL DEFAULT 0,
		credit_limit NUMERIC NOT NULL DEFAULT 0,
		monthly_payment NUMERIC NOT NULL DEFAULT 0,
		days_past_due INTEGER NOT NULL DEFAULT 0,
		total_payments_made INTEGER NOT NULL DEFAULT 0,
		on_time_payments INTEGER NOT NULL DEFAULT 0,
		late_payments INTEGER NOT NULL DEFAULT 0,
		missed_payments INTEGER NOT NULL DEFAULT 0,
		collateral_type TEXT,
		collateral_value NUMERIC,
		created_at DATETIME,
		updated_at DATETIME
	);`)
	mustExec(t, db, `CREATE TABLE cic_payment_history (
		id TEXT PRIMARY KEY,
		account_id TEXT NOT NULL,
		payment_month INTEGER NOT NULL,
		payment_year INTEGER NOT NULL,
		payment_due_date DATETIME NOT NULL,
		amount_due NUMERIC NOT NULL,
		amount_paid NUMERIC NOT NULL DEFAULT 0,
		payment_date DATETIME,
		days_late INTEGER NOT NULL DEFAULT 0,
		payment_status TEXT NOT NULL,
		is_partial_payment BOOLEAN NOT NULL DEFAULT 0,
		is_settlement BOOLEAN NOT NULL DEFAULT 0,
		created_at DATETIME
	);`)
	mustExec(t, db, `CREATE TABLE cic_assets (
		id TEXT PRIMARY KEY,
		customer_id TEXT NOT NULL,
		asset_type TEXT NOT NULL,
		asset_description TEXT,
		estimated_value NUMERIC NOT NULL,
		valuation_date DATETIME,
		is_encumbered BOOLEAN NOT NULL DEFAULT 0,
		created_at DATETIME
	);`)
	mustExec(t, db, `CREATE TABLE cic_inquiries (
		id TEXT PRIMARY KEY,
		customer_id TEXT NOT NULL,
		inquiry_type TEXT NOT NULL,
		inquiring_institution TEXT NOT NULL,
		inquiry_purpose TEXT,
		inquiry_date DATETIME NOT NULL,
		loan_amount_requested NUMERIC
	);`)
	mustExec(t, db, `CREATE TABLE cic_public_records (
		id TEXT PRIMARY KEY,
		customer_id TEXT NOT NULL,
		record_type TEXT NOT NULL,
		filing_date DATETIME NOT NULL,
		status TEXT NOT NULL,
		court_name TEXT,
		amount NUMERIC
	);`)
	mustExec(t, db, `CREATE TABLE cic_credit_score_history (
		id TEXT PRIMARY KEY,
		customer_id TEXT NOT NULL,
		score INTEGER NOT NULL,
		score_date DATETIME NOT NULL,
		risk_category TEXT NOT NULL,
		primary_factor TEXT,
		secondary_factor TEXT
	);`)
}
