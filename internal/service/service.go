// Package service contains the use-cases behind the HTTP layer. Each service
// depends on small store interfaces satisfied by the mongo repositories, so
// the lifecycle and evaluation logic is testable without a running database.
package service

import "time"

// nowFunc lets tests pin the clock.
type nowFunc func() time.Time

func defaultNow() time.Time { return time.Now().UTC() }
