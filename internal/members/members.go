// Package members covers the member directory, the approval queue, and the
// member-owned sub-resources (family, skills, contributions, cards).
package members

import (
	"context"
	"fmt"

	"github.com/acml/acmlctl/internal/gateway"
)

// Membership statuses. Transitions are server-authoritative; the console
// only displays them and requests changes.
const (
	StatusPending  = "PENDING"
	StatusActive   = "ACTIVE"
	StatusInactive = "INACTIVE"
)

// Family relationships.
const (
	RelationSpouse = "SPOUSE"
	RelationChild  = "CHILD"
	RelationParent = "PARENT"
)

// Member is the canonical member record as served by the platform.
type Member struct {
	ID                 string         `json:"id"`
	Username           string         `json:"username"`
	Email              string         `json:"email"`
	FirstName          string         `json:"first_name"`
	LastName           string         `json:"last_name"`
	Phone              string         `json:"phone"`
	Gender             string         `json:"gender"`
	Status             string         `json:"status"`
	MembershipType     string         `json:"membership_type"`
	PostalCode         string         `json:"postal_code"`
	IsStaff            bool           `json:"is_staff"`
	MustChangePassword bool           `json:"must_change_password"`
	DateJoined         string         `json:"date_joined"`
	Families           []Family       `json:"families,omitempty"`
	Skills             []Skill        `json:"skills,omitempty"`
	Contributions      []Contribution `json:"contributions,omitempty"`
	Cards              []Card         `json:"cards,omitempty"`
}

// Family is a declared family relationship of a member.
type Family struct {
	ID           string `json:"id"`
	Member       string `json:"member"`
	Relationship string `json:"relationship"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
}

// Skill is a skill a member offers to the community.
type Skill struct {
	ID          string `json:"id"`
	Member      string `json:"member"`
	SkillName   string `json:"skill_name"`
	Proficiency string `json:"proficiency"`
}

// Contribution is a past contribution (dues, donation, volunteering).
// Read-only on the console.
type Contribution struct {
	ID            string  `json:"id"`
	Member        string  `json:"member"`
	Type          string  `json:"type"`
	Amount        float64 `json:"amount"`
	Hours         float64 `json:"hours"`
	Description   string  `json:"description"`
	ContributedAt string  `json:"contributed_at"`
}

// Card is an issued membership card.
type Card struct {
	ID         string `json:"id"`
	Member     string `json:"member"`
	CardNumber string `json:"card_number"`
	Year       int    `json:"year"`
	ExpiresAt  string `json:"expires_at"`
}

// MemberInput is the create/update payload for a member record.
type MemberInput struct {
	Email          string `json:"email"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Phone          string `json:"phone"`
	Gender         string `json:"gender,omitempty"`
	Status         string `json:"status"`
	MembershipType string `json:"membership_type,omitempty"`
	PostalCode     string `json:"postal_code"`
	Password       string `json:"password,omitempty"`
	IsStaff        bool   `json:"is_staff"`
	DateJoined     string `json:"date_joined,omitempty"`
}

// RegisterInput is the self-registration payload. The new account lands in
// PENDING status until approved.
type RegisterInput struct {
	Email      string `json:"email"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Phone      string `json:"phone"`
	PostalCode string `json:"postal_code"`
	Password   string `json:"password"`
}

// FamilyInput is the create payload for a family relationship.
type FamilyInput struct {
	Member       string `json:"member"`
	Relationship string `json:"relationship"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
}

// SkillInput is the create payload for a member skill.
type SkillInput struct {
	Member      string `json:"member"`
	SkillName   string `json:"skill_name"`
	Proficiency string `json:"proficiency"`
}

// Service provides member operations over the API gateway.
type Service struct {
	gw *gateway.Client
}

// NewService creates a member service.
func NewService(gw *gateway.Client) *Service {
	return &Service{gw: gw}
}

// List fetches all members.
func (s *Service) List(ctx context.Context) ([]Member, error) {
	var out []Member
	if err := s.gw.Get(ctx, "/members/members/", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListPending fetches the approval queue. This is the one server-side
// filter the console uses.
func (s *Service) ListPending(ctx context.Context) ([]Member, error) {
	var out []Member
	if err := s.gw.Get(ctx, "/members/members/?status="+StatusPending, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Get fetches one member with its sub-resources.
func (s *Service) Get(ctx context.Context, id string) (*Member, error) {
	var out Member
	if err := s.gw.Get(ctx, "/members/members/"+id+"/", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Create validates the contact invariant locally, then POSTs the record.
// The returned member is the server's canonical copy.
func (s *Service) Create(ctx context.Context, in MemberInput) (*Member, error) {
	normalized, err := ValidateContact(in.Email, in.Phone)
	if err != nil {
		return nil, err
	}
	in.Phone = normalized

	var out Member
	if err := s.gw.Post(ctx, "/members/members/", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Update validates locally then PUTs the full record. An empty password
// leaves the current one untouched (the field is omitted from the payload).
func (s *Service) Update(ctx context.Context, id string, in MemberInput) (*Member, error) {
	normalized, err := ValidateContact(in.Email, in.Phone)
	if err != nil {
		return nil, err
	}
	in.Phone = normalized

	var out Member
	if err := s.gw.Put(ctx, "/members/members/"+id+"/", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete removes a member record entirely.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.gw.Delete(ctx, "/members/members/"+id+"/")
}

// Approve requests the dedicated PENDING -> ACTIVE transition. Rejection is
// intentionally not a status change: it is Delete.
func (s *Service) Approve(ctx context.Context, id string) (*Member, error) {
	var out Member
	if err := s.gw.Post(ctx, "/members/members/"+id+"/approve/", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Register submits a self-registration after local validation of the
// contact invariant and password rules.
func (s *Service) Register(ctx context.Context, in RegisterInput, passwordConfirm string) (*Member, error) {
	normalized, err := ValidateContact(in.Email, in.Phone)
	if err != nil {
		return nil, err
	}
	if err := ValidatePassword(in.Password, passwordConfirm); err != nil {
		return nil, err
	}
	in.Phone = normalized

	var out Member
	if err := s.gw.Post(ctx, "/members/members/register/", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ChangePassword validates locally then submits the new password for the
// authenticated member.
func (s *Service) ChangePassword(ctx context.Context, password, confirm string) error {
	if err := ValidatePassword(password, confirm); err != nil {
		return err
	}
	payload := map[string]string{"password": password}
	return s.gw.Post(ctx, "/members/members/change_password/", payload, nil)
}

// AddFamily attaches a family relationship to a member.
func (s *Service) AddFamily(ctx context.Context, in FamilyInput) (*Family, error) {
	if in.Member == "" {
		return nil, fmt.Errorf("family entry requires a member id")
	}
	var out Family
	if err := s.gw.Post(ctx, "/members/families/", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteFamily removes a family relationship.
func (s *Service) DeleteFamily(ctx context.Context, id string) error {
	return s.gw.Delete(ctx, "/members/families/"+id+"/")
}

// AddSkill attaches a skill to a member.
func (s *Service) AddSkill(ctx context.Context, in SkillInput) (*Skill, error) {
	if in.Member == "" {
		return nil, fmt.Errorf("skill entry requires a member id")
	}
	var out Skill
	if err := s.gw.Post(ctx, "/members/skills/", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteSkill removes a member skill.
func (s *Service) DeleteSkill(ctx context.Context, id string) error {
	return s.gw.Delete(ctx, "/members/skills/"+id+"/")
}
