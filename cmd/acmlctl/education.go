package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/acml/acmlctl/internal/console"
	"github.com/acml/acmlctl/internal/education"
	"github.com/spf13/cobra"
)

var educationCmd = &cobra.Command{
	Use:   "education",
	Short: "Manage courses and student enrolments",
}

var educationOverviewCmd = &cobra.Command{
	Use:   "overview",
	Short: "Show courses with their rosters",
	RunE:  runEducationOverview,
}

var coursesCmd = &cobra.Command{
	Use:   "courses",
	Short: "Manage courses",
}

var coursesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List courses",
	RunE:  runCoursesList,
}

var coursesCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a course",
	RunE:  runCoursesCreate,
}

var coursesDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a course",
	Args:  cobra.ExactArgs(1),
	RunE:  runCoursesDelete,
}

var studentsCmd = &cobra.Command{
	Use:   "students",
	Short: "Manage student enrolments",
}

var studentsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List students",
	RunE:  runStudentsList,
}

var studentsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Enrol a student",
	RunE:  runStudentsCreate,
}

var studentsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Remove a student enrolment",
	Args:  cobra.ExactArgs(1),
	RunE:  runStudentsDelete,
}

var courseFlags struct {
	name        string
	description string
	schedule    string
	session     string
	status      string
	teacher     string
}

var studentFlags struct {
	firstName     string
	lastName      string
	course        string
	level         string
	paymentStatus string
}

func init() {
	coursesCreateCmd.Flags().StringVar(&courseFlags.name, "name", "", "course name")
	coursesCreateCmd.Flags().StringVar(&courseFlags.description, "description", "", "description")
	coursesCreateCmd.Flags().StringVar(&courseFlags.schedule, "schedule", "", "weekly schedule")
	coursesCreateCmd.Flags().StringVar(&courseFlags.session, "session", "", "current session")
	coursesCreateCmd.Flags().StringVar(&courseFlags.status, "status", education.StatusDraft, "status (DRAFT, ACTIVE, COMPLETED)")
	coursesCreateCmd.Flags().StringVar(&courseFlags.teacher, "teacher", "", "teacher name")

	studentsCreateCmd.Flags().StringVar(&studentFlags.firstName, "first-name", "", "first name")
	studentsCreateCmd.Flags().StringVar(&studentFlags.lastName, "last-name", "", "last name")
	studentsCreateCmd.Flags().StringVar(&studentFlags.course, "course", "", "course id")
	studentsCreateCmd.Flags().StringVar(&studentFlags.level, "level", "", "level")
	studentsCreateCmd.Flags().StringVar(&studentFlags.paymentStatus, "payment", education.PaymentUnpaid, "payment status (PAID, PARTIAL, UNPAID, EXEMPT)")

	coursesCmd.AddCommand(coursesListCmd)
	coursesCmd.AddCommand(coursesCreateCmd)
	coursesCmd.AddCommand(coursesDeleteCmd)
	studentsCmd.AddCommand(studentsListCmd)
	studentsCmd.AddCommand(studentsCreateCmd)
	studentsCmd.AddCommand(studentsDeleteCmd)

	educationCmd.AddCommand(educationOverviewCmd)
	educationCmd.AddCommand(coursesCmd)
	educationCmd.AddCommand(studentsCmd)
	rootCmd.AddCommand(educationCmd)
}

func runEducationOverview(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if _, err := a.guard.Require(); err != nil {
		return err
	}

	var courses []education.Course
	var students []education.Student
	err = console.LoadPair(cmd.Context(), slog.Default(), map[string]func(ctx context.Context) error{
		"courses": func(ctx context.Context) error {
			var e error
			courses, e = a.education.ListCourses(ctx)
			return e
		},
		"students": func(ctx context.Context) error {
			var e error
			students, e = a.education.ListStudents(ctx)
			return e
		},
	})
	if err != nil {
		return err
	}

	rosters := education.StudentsByCourse(students)
	for _, c := range courses {
		fmt.Printf("%s (%s) — %s\n", c.Name, statusLabel(c.Status), c.Schedule)
		for _, st := range rosters[c.ID] {
			fmt.Printf("  %s %s  %s\n", st.FirstName, st.LastName, statusLabel(st.PaymentStatus))
		}
	}
	return nil
}

func runCoursesList(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if _, err := a.guard.Require(); err != nil {
		return err
	}

	list, err := a.education.ListCourses(cmd.Context())
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(list))
	for _, c := range list {
		rows = append(rows, []string{shortID(c.ID), c.Name, c.Schedule, c.CurrentSession, c.Teacher, statusLabel(c.Status)})
	}
	printTable([]string{"ID", "NOM", "HORAIRE", "SESSION", "ENSEIGNANT", "STATUT"}, rows)
	return nil
}

func runCoursesCreate(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if _, err := a.guard.RequireStaff(); err != nil {
		return err
	}

	c, err := a.education.CreateCourse(cmd.Context(), education.CourseInput{
		Name:           courseFlags.name,
		Description:    courseFlags.description,
		Schedule:       courseFlags.schedule,
		CurrentSession: courseFlags.session,
		Status:         courseFlags.status,
		Teacher:        courseFlags.teacher,
	})
	if err != nil {
		return err
	}
	slog.Info("course created", "id", c.ID)

	fmt.Printf("Cours créé: %s (%s)\n", c.Name, shortID(c.ID))
	return nil
}

func runCoursesDelete(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if _, err := a.guard.RequireStaff(); err != nil {
		return err
	}

	if !confirm("Supprimer ce cours ?") {
		return nil
	}
	if err := a.education.DeleteCourse(cmd.Context(), args[0]); err != nil {
		return err
	}
	slog.Info("course deleted", "id", args[0])

	fmt.Println("Cours supprimé")
	return nil
}

func runStudentsList(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if _, err := a.guard.Require(); err != nil {
		return err
	}

	list, err := a.education.ListStudents(cmd.Context())
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(list))
	for _, st := range list {
		rows = append(rows, []string{shortID(st.ID), st.FirstName + " " + st.LastName, shortID(st.Course), st.Level, statusLabel(st.PaymentStatus)})
	}
	printTable([]string{"ID", "NOM", "COURS", "NIVEAU", "PAIEMENT"}, rows)
	return nil
}

func runStudentsCreate(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if _, err := a.guard.RequireStaff(); err != nil {
		return err
	}

	st, err := a.education.CreateStudent(cmd.Context(), education.StudentInput{
		FirstName:     studentFlags.firstName,
		LastName:      studentFlags.lastName,
		Course:        studentFlags.course,
		Level:         studentFlags.level,
		PaymentStatus: studentFlags.paymentStatus,
	})
	if err != nil {
		return err
	}
	slog.Info("student enrolled", "id", st.ID)

	fmt.Printf("Élève inscrit: %s %s (%s)\n", st.FirstName, st.LastName, shortID(st.ID))
	return nil
}

func runStudentsDelete(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if _, err := a.guard.RequireStaff(); err != nil {
		return err
	}

	if !confirm("Retirer cet élève ?") {
		return nil
	}
	if err := a.education.DeleteStudent(cmd.Context(), args[0]); err != nil {
		return err
	}
	slog.Info("student removed", "id", args[0])

	fmt.Println("Élève retiré")
	return nil
}
