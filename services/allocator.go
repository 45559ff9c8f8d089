package services

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"
)

// VisitDate formats t the way queue rows store their daily scope.
func VisitDate(t time.Time) string {
	return t.Format("2006-01-02")
}

// NextMedicalRecordNumber derives the next RM-YYYYMMDD-NNN number by scanning
// the highest existing number for today. It must run inside the transaction
// that inserts the patient it guards; the unique index on patients.no_rm is
// the backstop when two registrations race past the scan.
func NextMedicalRecordNumber(tx *gorm.DB, today time.Time) (string, error) {
	prefix := fmt.Sprintf("RM-%s-", today.Format("20060102"))

	var lastNoRM string
	err := tx.Table("patients").
		Select("no_rm").
		Where("no_rm LIKE ?", prefix+"%").
		Order("no_rm DESC").
		Limit(1).
		Scan(&lastNoRM).Error
	if err != nil {
		return "", PersistenceError("Terjadi kesalahan saat membuat nomor rekam medis", err)
	}

	next := 1
	if lastNoRM != "" {
		parts := strings.Split(lastNoRM, "-")
		last, convErr := strconv.Atoi(parts[len(parts)-1])
		if convErr != nil {
			return "", PersistenceError("Nomor rekam medis tidak valid: "+lastNoRM, convErr)
		}
		next = last + 1
	}

	return fmt.Sprintf("%s%03d", prefix, next), nil
}

// NextQueueNumber derives today's next queue number (daily reset, starts at 1).
// Same transactional requirement as NextMedicalRecordNumber; the composite
// unique index on (visit_date, queue_number) is the backstop.
func NextQueueNumber(tx *gorm.DB, today time.Time) (int, error) {
	var maxNumber int
	err := tx.Table("queues").
		Select("COALESCE(MAX(queue_number), 0)").
		Where("visit_date = ?", VisitDate(today)).
		Scan(&maxNumber).Error
	if err != nil {
		return 0, PersistenceError("Terjadi kesalahan saat membuat nomor antrian", err)
	}
	return maxNumber + 1, nil
}

// isDuplicateKey reports whether err came from a unique constraint, i.e. a
// numbering race the caller may retry once.
func isDuplicateKey(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
