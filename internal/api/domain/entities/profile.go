package entities

import (
	"time"

	"workwhiz/internal/transform"
)

// Profile - профиль роли, связанный с пользователем.
type Profile interface {
	transform.Recorder
	ProfileID() string
	Owner() *User
	Role() Role
}

// Admin - профиль администратора.
type Admin struct {
	ID          string
	UserID      string
	FirstName   string
	LastName    string
	Permissions []string
	User        *User
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Candidate - профиль соискателя.
type Candidate struct {
	ID         string
	UserID     string
	FirstName  string
	LastName   string
	Title      string
	Skills     []string
	IsEmployed bool
	User       *User
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Employer - профиль работодателя.
type Employer struct {
	ID          string
	UserID      string
	Name        string
	Industry    string
	WebsiteURL  *string
	Location    *string
	Description *string
	Size        *int
	FoundedIn   *int
	IsVerified  bool
	User        *User
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (a *Admin) ProfileID() string { return a.ID }
func (a *Admin) Owner() *User      { return a.User }
func (a *Admin) Role() Role        { return RoleAdmin }

func (c *Candidate) ProfileID() string { return c.ID }
func (c *Candidate) Owner() *User      { return c.User }
func (c *Candidate) Role() Role        { return RoleCandidate }

func (e *Employer) ProfileID() string { return e.ID }
func (e *Employer) Owner() *User      { return e.User }
func (e *Employer) Role() Role        { return RoleEmployer }

func withOwner(rec transform.Record, u *User, created, updated time.Time) transform.Record {
	if u != nil {
		rec["user"] = u.Record()
	}
	rec["createdAt"] = created
	rec["updatedAt"] = updated
	return rec
}

func setIf[T any](rec transform.Record, key string, v *T) {
	if v != nil {
		rec[key] = *v
	}
}

// Record экспортирует профиль администратора.
func (a *Admin) Record() transform.Record {
	return withOwner(transform.Record{
		"id":          a.ID,
		"userId":      a.UserID,
		"firstName":   a.FirstName,
		"lastName":    a.LastName,
		"permissions": a.Permissions,
	}, a.User, a.CreatedAt, a.UpdatedAt)
}

// Record экспортирует профиль соискателя.
func (c *Candidate) Record() transform.Record {
	return withOwner(transform.Record{
		"id":         c.ID,
		"userId":     c.UserID,
		"firstName":  c.FirstName,
		"lastName":   c.LastName,
		"title":      c.Title,
		"skills":     c.Skills,
		"isEmployed": c.IsEmployed,
	}, c.User, c.CreatedAt, c.UpdatedAt)
}

// Record экспортирует профиль работодателя.
func (e *Employer) Record() transform.Record {
	rec := transform.Record{
		"id":         e.ID,
		"userId":     e.UserID,
		"name":       e.Name,
		"industry":   e.Industry,
		"isVerified": e.IsVerified,
	}
	setIf(rec, "websiteUrl", e.WebsiteURL)
	setIf(rec, "location", e.Location)
	setIf(rec, "description", e.Description)
	setIf(rec, "size", e.Size)
	setIf(rec, "foundedIn", e.FoundedIn)
	return withOwner(rec, e.User, e.CreatedAt, e.UpdatedAt)
}

// TransformKind возвращает вид transform для роли.
func (r Role) TransformKind() transform.Kind {
	return transform.Kind(r)
}
