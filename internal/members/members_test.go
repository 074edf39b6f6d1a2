package members

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/acml/acmlctl/internal/apitest"
	"github.com/acml/acmlctl/internal/gateway"
)

type staticToken string

func (t staticToken) Token() string { return string(t) }

func newService(t *testing.T) (*Service, *apitest.Server) {
	t.Helper()
	srv := apitest.New()
	t.Cleanup(srv.Close)
	gw := gateway.New(srv.URL(), staticToken(srv.Token()), 5*time.Second)
	return NewService(gw), srv
}

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name  string
		phone string
		want  string
	}{
		{"empty", "", ""},
		{"already normalized", "5145550199", "5145550199"},
		{"formatted", "(514) 555-0199", "5145550199"},
		{"dots and spaces", "514.555.0199 ", "5145550199"},
		{"leading plus one", "+1 514 555 0199", "15145550199"},
		{"letters dropped", "514-ACM-L514", "514514"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizePhone(tt.phone); got != tt.want {
				t.Errorf("NormalizePhone(%q) = %q, want %q", tt.phone, got, tt.want)
			}
		})
	}
}

func TestValidateContact(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		phone   string
		want    string
		wantErr error
	}{
		{"email only", "a@b.example", "", "", nil},
		{"phone only", "", "(514) 555-0199", "5145550199", nil},
		{"both", "a@b.example", "5145550199", "5145550199", nil},
		{"neither", "", "", "", ErrContactRequired},
		{"phone too short", "", "555-0199", "", ErrPhoneLength},
		{"phone too long", "", "+1 514 555 0199", "", ErrPhoneLength},
		{"email excuses no phone quality", "a@b.example", "555", "", ErrPhoneLength},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateContact(tt.email, tt.phone)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("ValidateContact(%q, %q) error = %v, want %v", tt.email, tt.phone, err, tt.wantErr)
			}
			if err == nil && got != tt.want {
				t.Errorf("normalized phone = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		confirm  string
		wantErr  error
	}{
		{"valid", "s3cret-enough", "s3cret-enough", nil},
		{"exactly eight", "12345678", "12345678", nil},
		{"too short", "1234567", "1234567", ErrPasswordTooShort},
		{"mismatch", "s3cret-enough", "s3cret-enuff", ErrPasswordMismatch},
		{"empty", "", "", ErrPasswordTooShort},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidatePassword(tt.password, tt.confirm); !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidatePassword() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestMatchesSearch(t *testing.T) {
	m := Member{
		FirstName: "Fatima",
		LastName:  "Benali",
		Email:     "fatima@acml.example",
		Phone:     "5145550199",
	}
	tests := []struct {
		term string
		want bool
	}{
		{"", true},
		{"fatima", true},
		{"BENALI", true},
		{"acml.example", true},
		{"5550199", true},
		{"karim", false},
	}
	for _, tt := range tests {
		if got := m.MatchesSearch(tt.term); got != tt.want {
			t.Errorf("MatchesSearch(%q) = %v, want %v", tt.term, got, tt.want)
		}
	}
}

func TestCreateRejectedLocallyBeforeAnyRequest(t *testing.T) {
	svc, srv := newService(t)

	tests := []struct {
		name    string
		in      MemberInput
		wantErr error
	}{
		{"no contact", MemberInput{FirstName: "Omar", LastName: "Haddad"}, ErrContactRequired},
		{"short phone", MemberInput{FirstName: "Omar", Phone: "5550199"}, ErrPhoneLength},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Create(context.Background(), tt.in); !errors.Is(err, tt.wantErr) {
				t.Fatalf("Create() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
	if got := srv.Requests(); got != 0 {
		t.Errorf("server received %d requests, want 0", got)
	}
}

func TestRegisterRejectedLocallyBeforeAnyRequest(t *testing.T) {
	svc, srv := newService(t)

	in := RegisterInput{
		Email:     "omar@acml.example",
		FirstName: "Omar",
		LastName:  "Haddad",
	}

	in.Password = "short"
	if _, err := svc.Register(context.Background(), in, "short"); !errors.Is(err, ErrPasswordTooShort) {
		t.Fatalf("Register() error = %v, want %v", err, ErrPasswordTooShort)
	}

	in.Password = "long-enough"
	if _, err := svc.Register(context.Background(), in, "different-one"); !errors.Is(err, ErrPasswordMismatch) {
		t.Fatalf("Register() error = %v, want %v", err, ErrPasswordMismatch)
	}

	if got := srv.Requests(); got != 0 {
		t.Errorf("server received %d requests, want 0", got)
	}
}

func TestCreateReturnsServerCopy(t *testing.T) {
	svc, srv := newService(t)

	created, err := svc.Create(context.Background(), MemberInput{
		Email:     "fatima@acml.example",
		FirstName: "Fatima",
		LastName:  "Benali",
		Phone:     "(514) 555-0199",
		Status:    StatusActive,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if created.ID == "" {
		t.Fatal("Create() returned record without server id")
	}
	if created.Phone != "5145550199" {
		t.Errorf("stored phone = %q, want normalized %q", created.Phone, "5145550199")
	}
	if created.DateJoined == "" {
		t.Error("server-assigned date_joined missing from returned record")
	}

	got, err := svc.Get(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Email != "fatima@acml.example" {
		t.Errorf("Get() email = %q, want %q", got.Email, "fatima@acml.example")
	}
	if srv.Count("members/members") != 1 {
		t.Errorf("server holds %d members, want 1", srv.Count("members/members"))
	}
}

func TestListPendingOnlyReturnsApprovalQueue(t *testing.T) {
	svc, srv := newService(t)

	srv.Seed("members/members",
		apitest.Record{"first_name": "Amina", "status": StatusActive},
		apitest.Record{"first_name": "Omar", "status": StatusPending},
		apitest.Record{"first_name": "Leila", "status": StatusPending},
		apitest.Record{"first_name": "Karim", "status": StatusInactive},
	)

	pending, err := svc.ListPending(context.Background())
	if err != nil {
		t.Fatalf("ListPending() error = %v", err)
	}
	if len(pending) != 2 {
		t.Fatalf("ListPending() returned %d members, want 2", len(pending))
	}
	for _, m := range pending {
		if m.Status != StatusPending {
			t.Errorf("member %s has status %s, want %s", m.FirstName, m.Status, StatusPending)
		}
	}
}

func TestApproveTransitionsToActive(t *testing.T) {
	svc, srv := newService(t)

	ids := srv.Seed("members/members", apitest.Record{"first_name": "Omar", "status": StatusPending})

	approved, err := svc.Approve(context.Background(), ids[0])
	if err != nil {
		t.Fatalf("Approve() error = %v", err)
	}
	if approved.Status != StatusActive {
		t.Errorf("approved status = %s, want %s", approved.Status, StatusActive)
	}

	// The record survives approval and shows up ACTIVE in a fresh list.
	all, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(all) != 1 || all[0].ID != ids[0] || all[0].Status != StatusActive {
		t.Errorf("List() after approve = %+v, want the member, active", all)
	}

	pending, err := svc.ListPending(context.Background())
	if err != nil {
		t.Fatalf("ListPending() error = %v", err)
	}
	if len(pending) != 0 {
		t.Errorf("approval queue still holds %d members, want 0", len(pending))
	}
}

func TestListIsIdempotent(t *testing.T) {
	svc, srv := newService(t)

	srv.Seed("members/members",
		apitest.Record{"first_name": "Amina", "email": "amina@acml.example", "status": StatusActive},
		apitest.Record{"first_name": "Omar", "email": "omar@acml.example", "status": StatusPending},
	)

	first, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	second, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated List() diverged:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestRejectionIsDeletion(t *testing.T) {
	svc, srv := newService(t)

	ids := srv.Seed("members/members", apitest.Record{"first_name": "Omar", "status": StatusPending})

	if err := svc.Delete(context.Background(), ids[0]); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if srv.Count("members/members") != 0 {
		t.Error("rejected member still present on the server")
	}
}

func TestRegisterLandsInPendingWithoutAuth(t *testing.T) {
	srv := apitest.New()
	t.Cleanup(srv.Close)

	// Self-registration happens before any session exists.
	gw := gateway.New(srv.URL(), staticToken(""), 5*time.Second)
	svc := NewService(gw)

	created, err := svc.Register(context.Background(), RegisterInput{
		Email:     "newcomer@acml.example",
		FirstName: "Yasmine",
		LastName:  "Cherif",
		Password:  "long-enough",
	}, "long-enough")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if created.Status != StatusPending {
		t.Errorf("registered status = %s, want %s", created.Status, StatusPending)
	}
}

func TestChangePassword(t *testing.T) {
	svc, srv := newService(t)

	if err := svc.ChangePassword(context.Background(), "nouveau-secret", "nouveau-secret"); err != nil {
		t.Fatalf("ChangePassword() error = %v", err)
	}
	if got := srv.LastPassword(); got != "nouveau-secret" {
		t.Errorf("server received password %q, want %q", got, "nouveau-secret")
	}
}

func TestFamilyAndSkillLifecycle(t *testing.T) {
	svc, srv := newService(t)

	memberIDs := srv.Seed("members/members", apitest.Record{"first_name": "Amina", "status": StatusActive})

	fam, err := svc.AddFamily(context.Background(), FamilyInput{
		Member:       memberIDs[0],
		Relationship: RelationChild,
		FirstName:    "Sami",
		LastName:     "Khalil",
	})
	if err != nil {
		t.Fatalf("AddFamily() error = %v", err)
	}
	if fam.ID == "" {
		t.Fatal("AddFamily() returned record without server id")
	}

	if _, err := svc.AddFamily(context.Background(), FamilyInput{Relationship: RelationChild}); err == nil {
		t.Error("AddFamily() without member id should fail")
	}

	if err := svc.DeleteFamily(context.Background(), fam.ID); err != nil {
		t.Fatalf("DeleteFamily() error = %v", err)
	}
	if srv.Count("members/families") != 0 {
		t.Error("family entry still present after delete")
	}

	skill, err := svc.AddSkill(context.Background(), SkillInput{
		Member:    memberIDs[0],
		SkillName: "Comptabilité",
	})
	if err != nil {
		t.Fatalf("AddSkill() error = %v", err)
	}
	if err := svc.DeleteSkill(context.Background(), skill.ID); err != nil {
		t.Fatalf("DeleteSkill() error = %v", err)
	}
}
