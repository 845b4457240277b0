package user

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"attendseed/internal/domain/doc"
)

// Role constants
const (
	RoleEmployee      = "employee"
	RoleSupervisor    = "supervisor"
	RoleBranchManager = "branch_manager"
)

// Canonical status forced on every seeded user.
const (
	StatusApproved      = "approved"
	StatusLabelApproved = "Approved"
)

// Salary constants
const (
	SalaryBaseMin = 600
	SalaryBaseMax = 1200
	OvertimeRate  = 60
)

// Roles contains all valid role values.
var Roles = []string{RoleEmployee, RoleSupervisor, RoleBranchManager}

// Domain errors
var (
	ErrInvalidCode      = errors.New("user code must match EMP-NNN")
	ErrInvalidEmail     = errors.New("user email must contain '@'")
	ErrInvalidRole      = errors.New("role must be one of: employee, supervisor, branch_manager")
	ErrEmptyPassword    = errors.New("password cannot be empty")
	ErrPasswordTooShort = errors.New("password must be at least 12 characters")
)

var codePattern = regexp.MustCompile(`^EMP-\d{3}$`)

// Deduction is a named salary deduction line.
type Deduction struct {
	Name   string
	Amount int
}

// User holds state for one seeded employee record.
type User struct {
	Code            string
	Name            string
	FullName        string
	Email           string
	Phone           string
	Role            string
	BranchID        string
	BranchName      string
	PrimaryBranchID string
	ShiftID         string
	ShiftName       string
	AssignedShiftID string
	Status          string
	StatusLabel     string
	SalaryBase      int
	Allowances      int
	Deductions      []Deduction
	OvertimeRate    int
	AllowAnyBranch  bool
	PasswordHash    string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Code derives the canonical user code from a 1-based index.
// POST: Result matches EMP-NNN with a 3-digit zero-padded index
func Code(index int) string {
	return fmt.Sprintf("EMP-%03d", index)
}

// Validate checks if the User has valid data.
// INVARIANT: Code is the document key and must match the canonical pattern
func (u *User) Validate() error {
	if !codePattern.MatchString(u.Code) {
		return ErrInvalidCode
	}
	if !strings.Contains(u.Email, "@") {
		return ErrInvalidEmail
	}
	valid := false
	for _, r := range Roles {
		if u.Role == r {
			valid = true
			break
		}
	}
	if !valid {
		return ErrInvalidRole
	}
	return nil
}

// HashPassword hashes a development password using bcrypt with cost 12.
// Hashing is done once per run and shared across seeded users, so the cost
// stays off the per-user loop.
func HashPassword(plaintext string) (string, error) {
	if plaintext == "" {
		return "", ErrEmptyPassword
	}
	if len(plaintext) < 12 {
		return "", ErrPasswordTooShort
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), 12)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword verifies a plaintext password against the stored hash.
// INVARIANT: User fields are not mutated
func (u *User) CheckPassword(plaintext string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(plaintext))
}

// Normalize merges a freshly generated record with a previously stored one.
// Stored values win for mutable business fields so operator edits survive
// repeated seeding runs; code, status, statusLabel and updatedAt are always
// forced to canonical current-run values.
// PRE: fresh is fully populated for the current run
// POST: Result carries stored business fields where present, canonical
// identity and status fields otherwise
func Normalize(fresh, stored User, now time.Time) User {
	out := fresh

	keep := func(dst *string, stored string) {
		if stored != "" {
			*dst = stored
		}
	}
	keep(&out.Name, stored.Name)
	keep(&out.FullName, stored.FullName)
	keep(&out.Email, stored.Email)
	keep(&out.Phone, stored.Phone)
	keep(&out.Role, stored.Role)
	keep(&out.BranchID, stored.BranchID)
	keep(&out.BranchName, stored.BranchName)
	keep(&out.PrimaryBranchID, stored.PrimaryBranchID)
	keep(&out.ShiftID, stored.ShiftID)
	keep(&out.ShiftName, stored.ShiftName)
	keep(&out.AssignedShiftID, stored.AssignedShiftID)
	keep(&out.PasswordHash, stored.PasswordHash)

	// name/fullName backfill each other, as older records had only one
	if out.FullName == "" {
		out.FullName = out.Name
	}
	if out.Name == "" {
		out.Name = out.FullName
	}
	// primary/assigned fall back to the plain assignment fields
	if stored.PrimaryBranchID == "" && stored.BranchID != "" {
		out.PrimaryBranchID = stored.BranchID
	}
	if stored.AssignedShiftID == "" && stored.ShiftID != "" {
		out.AssignedShiftID = stored.ShiftID
	}

	if stored.SalaryBase != 0 {
		out.SalaryBase = stored.SalaryBase
	}
	if stored.Allowances != 0 {
		out.Allowances = stored.Allowances
	}
	if len(stored.Deductions) > 0 {
		out.Deductions = stored.Deductions
	}
	if stored.OvertimeRate != 0 {
		out.OvertimeRate = stored.OvertimeRate
	}
	if stored.AllowAnyBranch {
		out.AllowAnyBranch = true
	}
	if !stored.CreatedAt.IsZero() {
		out.CreatedAt = stored.CreatedAt
	}

	// forced canonical values
	out.Code = fresh.Code
	out.Status = StatusApproved
	out.StatusLabel = StatusLabelApproved
	out.UpdatedAt = now
	return out
}

// Doc converts the user to a store document. Code is also the document key.
func (u User) Doc() map[string]any {
	deductions := make([]any, 0, len(u.Deductions))
	for _, d := range u.Deductions {
		deductions = append(deductions, map[string]any{"name": d.Name, "amount": d.Amount})
	}
	return map[string]any{
		"code":            u.Code,
		"name":            u.Name,
		"fullName":        u.FullName,
		"email":           u.Email,
		"phone":           u.Phone,
		"role":            u.Role,
		"branchId":        u.BranchID,
		"branchName":      u.BranchName,
		"primaryBranchId": u.PrimaryBranchID,
		"shiftId":         u.ShiftID,
		"shiftName":       u.ShiftName,
		"assignedShiftId": u.AssignedShiftID,
		"status":          u.Status,
		"statusLabel":     u.StatusLabel,
		"salaryBase":      u.SalaryBase,
		"allowances":      u.Allowances,
		"deductions":      deductions,
		"overtimeRate":    u.OvertimeRate,
		"allowAnyBranch":  u.AllowAnyBranch,
		"passwordHash":    u.PasswordHash,
		"createdAt":       u.CreatedAt,
		"updatedAt":       u.UpdatedAt,
	}
}

// FromDoc builds a User from a store document.
func FromDoc(d map[string]any) User {
	var deductions []Deduction
	for _, item := range doc.AsSlice(d, "deductions") {
		if m, ok := item.(map[string]any); ok {
			deductions = append(deductions, Deduction{
				Name:   doc.AsString(m, "name"),
				Amount: doc.AsInt(m, "amount"),
			})
		}
	}
	return User{
		Code:            doc.AsString(d, "code"),
		Name:            doc.AsString(d, "name"),
		FullName:        doc.AsString(d, "fullName"),
		Email:           doc.AsString(d, "email"),
		Phone:           doc.AsString(d, "phone"),
		Role:            doc.AsString(d, "role"),
		BranchID:        doc.AsString(d, "branchId"),
		BranchName:      doc.AsString(d, "branchName"),
		PrimaryBranchID: doc.AsString(d, "primaryBranchId"),
		ShiftID:         doc.AsString(d, "shiftId"),
		ShiftName:       doc.AsString(d, "shiftName"),
		AssignedShiftID: doc.AsString(d, "assignedShiftId"),
		Status:          doc.AsString(d, "status"),
		StatusLabel:     doc.AsString(d, "statusLabel"),
		SalaryBase:      doc.AsInt(d, "salaryBase"),
		Allowances:      doc.AsInt(d, "allowances"),
		Deductions:      deductions,
		OvertimeRate:    doc.AsInt(d, "overtimeRate"),
		AllowAnyBranch:  doc.AsBool(d, "allowAnyBranch"),
		PasswordHash:    doc.AsString(d, "passwordHash"),
		CreatedAt:       doc.AsTime(d, "createdAt"),
		UpdatedAt:       doc.AsTime(d, "updatedAt"),
	}
}
