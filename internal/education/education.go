// Package education manages courses and student enrolments.
package education

import (
	"context"

	"github.com/acml/acmlctl/internal/gateway"
)

// Course statuses.
const (
	StatusDraft     = "DRAFT"
	StatusActive    = "ACTIVE"
	StatusCompleted = "COMPLETED"
)

// Student payment statuses.
const (
	PaymentPaid    = "PAID"
	PaymentPartial = "PARTIAL"
	PaymentUnpaid  = "UNPAID"
	PaymentExempt  = "EXEMPT"
)

// Course is a class offered by the organization.
type Course struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Description    string `json:"description"`
	Schedule       string `json:"schedule"`
	CurrentSession string `json:"current_session"`
	Status         string `json:"status"`
	Teacher        string `json:"teacher,omitempty"`
	CreatedAt      string `json:"created_at"`
}

// Student is an enrolment in a course.
type Student struct {
	ID            string `json:"id"`
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	Course        string `json:"course"`
	Level         string `json:"level,omitempty"`
	PaymentStatus string `json:"payment_status"`
	EnrolledAt    string `json:"enrolled_at"`
}

// CourseInput is the create/update payload for a course.
type CourseInput struct {
	Name           string `json:"name"`
	Description    string `json:"description"`
	Schedule       string `json:"schedule"`
	CurrentSession string `json:"current_session"`
	Status         string `json:"status"`
	Teacher        string `json:"teacher,omitempty"`
}

// StudentInput is the create/update payload for a student.
type StudentInput struct {
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	Course        string `json:"course"`
	Level         string `json:"level,omitempty"`
	PaymentStatus string `json:"payment_status"`
}

// StudentsByCourse groups students by their course id, preserving list
// order within each group. The page shows each course with its roster.
func StudentsByCourse(students []Student) map[string][]Student {
	out := make(map[string][]Student)
	for _, st := range students {
		out[st.Course] = append(out[st.Course], st)
	}
	return out
}

// Service provides course and student operations over the API gateway.
type Service struct {
	gw *gateway.Client
}

// NewService creates an education service.
func NewService(gw *gateway.Client) *Service {
	return &Service{gw: gw}
}

// ListCourses fetches all courses.
func (s *Service) ListCourses(ctx context.Context) ([]Course, error) {
	var out []Course
	if err := s.gw.Get(ctx, "/education/courses/", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateCourse posts a new course and returns the server's copy.
func (s *Service) CreateCourse(ctx context.Context, in CourseInput) (*Course, error) {
	var out Course
	if err := s.gw.Post(ctx, "/education/courses/", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateCourse replaces a course.
func (s *Service) UpdateCourse(ctx context.Context, id string, in CourseInput) (*Course, error) {
	var out Course
	if err := s.gw.Put(ctx, "/education/courses/"+id+"/", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteCourse removes a course.
func (s *Service) DeleteCourse(ctx context.Context, id string) error {
	return s.gw.Delete(ctx, "/education/courses/"+id+"/")
}

// ListStudents fetches all students.
func (s *Service) ListStudents(ctx context.Context) ([]Student, error) {
	var out []Student
	if err := s.gw.Get(ctx, "/education/students/", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateStudent enrols a student and returns the server's copy.
func (s *Service) CreateStudent(ctx context.Context, in StudentInput) (*Student, error) {
	var out Student
	if err := s.gw.Post(ctx, "/education/students/", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateStudent replaces a student record.
func (s *Service) UpdateStudent(ctx context.Context, id string, in StudentInput) (*Student, error) {
	var out Student
	if err := s.gw.Put(ctx, "/education/students/"+id+"/", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteStudent removes a student record.
func (s *Service) DeleteStudent(ctx context.Context, id string) error {
	return s.gw.Delete(ctx, "/education/students/"+id+"/")
}
