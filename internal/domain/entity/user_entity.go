package entity

import (
	"time"
)

// User is the aggregate root for the user domain.
// ID and CreatedAt are owned by the persistence layer: ID is assigned by the
// store on first save, CreatedAt is set exactly once and never overwritten.
//
// Age is a pointer so an unset value is distinguishable from zero; inbound
// validation still requires it.
type User struct {
	ID        int64
	Name      string
	Email     string
	Age       *int
	CreatedAt *time.Time
}
