package models

import "time"

type Role string

const (
	RoleTrainer Role = "Trainer"
	RoleTrainee Role = "Trainee"
)

func (r Role) Valid() bool {
	return r == RoleTrainer || r == RoleTrainee
}

type User struct {
	ID         string     `bson:"_id,omitempty" json:"id"`
	Email      string     `bson:"email" json:"email"`
	FirstName  string     `bson:"firstName" json:"firstName"`
	LastName   string     `bson:"lastName" json:"lastName"`
	Role       Role       `bson:"role" json:"role"`
	Department string     `bson:"department" json:"department"`
	Password   string     `bson:"password" json:"-"`
	CreatedAt  time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt  *time.Time `bson:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}

func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// Principal is the verified actor attached to a request by the auth
// middleware. It is the only identity information the use-cases see.
type Principal struct {
	ID   string
	Role Role
}
