package domain

import "time"

// Item is a single task on the list.
// Does not depend on Gin, Postgres, SQLite or Redis.
type Item struct {
	ID        int64
	Title     string
	Completed bool
	CreatedAt time.Time
}
