// Command conflict_audit scans the assignments table for teachers booked in
// the same slot family on the same day across multiple classrooms of a year.
// Rows written before server-side conflict checking existed can violate the
// rule, so the audit runs standalone against the database and exits non-zero
// when violations are found.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

type violation struct {
	YearID     string `db:"year_id"`
	TeacherID  string `db:"teacher_id"`
	Day        string `db:"day"`
	SortOrder  int    `db:"sort_order"`
	Classrooms string `db:"classrooms"`
	Bookings   int    `db:"bookings"`
}

const (
	violationSelect = `
SELECT a.year_id,
       a.teacher_id,
       a.day,
       s.sort_order,
       string_agg(DISTINCT a.classroom_id, ',' ORDER BY a.classroom_id) AS classrooms,
       COUNT(*) AS bookings
FROM assignments a
JOIN timeslots s ON s.id = a.timeslot_id
WHERE a.teacher_id IS NOT NULL`

	violationGroup = `
GROUP BY a.year_id, a.teacher_id, a.day, s.sort_order
HAVING COUNT(*) > 1`
)

func main() {
	var (
		dsn     string
		yearID  string
		timeout time.Duration
	)

	flag.StringVar(&dsn, "dsn", os.Getenv("DATABASE_URL"), "Postgres connection string")
	flag.StringVar(&yearID, "year", "", "Restrict the audit to one year ID")
	flag.DurationVar(&timeout, "timeout", 30*time.Second, "Query timeout")
	flag.Parse()

	if dsn == "" {
		log.Fatal("no database DSN: pass -dsn or set DATABASE_URL")
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	db, err := sqlx.ConnectContext(ctx, "postgres", dsn)
	if err != nil {
		log.Fatalf("failed to connect: %v", err)
	}
	defer db.Close()

	violations, err := findViolations(ctx, db, yearID)
	if err != nil {
		log.Fatalf("audit query failed: %v", err)
	}

	printReport(violations)
	if len(violations) > 0 {
		os.Exit(1)
	}
}

func findViolations(ctx context.Context, db *sqlx.DB, yearID string) ([]violation, error) {
	query := violationSelect
	args := []interface{}{}
	if yearID != "" {
		query += " AND a.year_id = $1"
		args = append(args, yearID)
	}
	query += violationGroup

	var violations []violation
	if err := db.SelectContext(ctx, &violations, query, args...); err != nil {
		return nil, err
	}
	return violations, nil
}

func printReport(violations []violation) {
	fmt.Println("Timetable Conflict Audit")
	fmt.Println("========================")
	if len(violations) == 0 {
		fmt.Println("No double bookings found.")
		return
	}
	for _, v := range violations {
		fmt.Printf("[CONFLICT] year=%s teacher=%s day=%s slot=%d\n", v.YearID, v.TeacherID, v.Day, v.SortOrder)
		fmt.Printf("  classrooms: %s (%d bookings)\n", v.Classrooms, v.Bookings)
	}
	fmt.Printf("Total violations: %d\n", len(violations))
}
