package database

import (
	"fmt"

	"gorm.io/gorm"
)

// Incr builds an in-place increment of a counter column.
func Incr(column string) interface{} {
	return gorm.Expr(fmt.Sprintf("%s + ?", column), 1)
}

// Decr builds an in-place decrement floored at zero.
func Decr(column string) interface{} {
	return gorm.Expr(fmt.Sprintf("CASE WHEN %[1]s > 0 THEN %[1]s - 1 ELSE 0 END", column))
}
