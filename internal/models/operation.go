package models

import "time"

// Operation identifies one of the supported calculations
type Operation string

const (
	OperationPower     Operation = "power"
	OperationFibonacci Operation = "fibonacci"
	OperationFactorial Operation = "factorial"
)

// Valid reports whether op is one of the known operations.
func (op Operation) Valid() bool {
	switch op {
	case OperationPower, OperationFibonacci, OperationFactorial:
		return true
	}
	return false
}

// OperationHistory records a single calculation request, cached or not
type OperationHistory struct {
	ID                uint      `json:"id" gorm:"primaryKey"`
	Operation         Operation `json:"operation" gorm:"size:50;not null;index"`
	InputValue        int64     `json:"input_value" gorm:"column:input_value;not null"`
	Exponent          *int64    `json:"exponent" gorm:"column:exponent"`
	Result            string    `json:"result" gorm:"type:text;not null"`
	ComputationTimeMs float64   `json:"computation_time_ms" gorm:"column:computation_time_ms;not null"`
	Cached            bool      `json:"cached" gorm:"not null;default:false"`
	IPAddress         string    `json:"ip_address" gorm:"column:ip_address;size:45"`
	CreatedAt         time.Time `json:"created_at" gorm:"not null;index"`
}

// TableName specifies the table name for OperationHistory Model
func (OperationHistory) TableName() string {
	return "operation_history"
}
