package store

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/yeremiapane/hostel-app/models"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// GormStore implements Store on a relational database.
type GormStore struct {
	DB *gorm.DB
}

// OpenGorm connects to driver ("mysql" or "sqlite") and migrates the schema.
func OpenGorm(driver, dsn string) (*GormStore, error) {
	var dialector gorm.Dialector
	switch driver {
	case "mysql":
		dialector = mysql.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported sql driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         newGormLogger(log.New(os.Stderr, "\r\n", log.LstdFlags)),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	if driver == "sqlite" {
		// One connection keeps :memory: databases alive and serializes writers.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	s := &GormStore{DB: db}
	if err := s.AutoMigrate(); err != nil {
		return nil, err
	}
	return s, nil
}

// newGormLogger logs slow queries and real errors. Lookups that miss are
// expected and surface as ErrNotFound instead.
func newGormLogger(out logger.Writer) logger.Interface {
	return logger.New(
		out,
		logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
}

// NewMemory returns a fresh in-memory SQLite store.
func NewMemory() (*GormStore, error) {
	return OpenGorm("sqlite", ":memory:")
}

func (s *GormStore) AutoMigrate() error {
	return s.DB.AutoMigrate(
		&models.User{},
		&models.Complaint{},
		&models.ServiceRequest{},
		&models.LeaveRequest{},
		&models.Payment{},
		&models.Announcement{},
	)
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicateEmail
	}
	return err
}

// patch applies cols to the record with the given id and returns it reloaded.
func patch[T any](ctx context.Context, db *gorm.DB, id string, cols map[string]interface{}) (*T, error) {
	var rec T
	if err := db.WithContext(ctx).Where("id = ?", id).First(&rec).Error; err != nil {
		return nil, translate(err)
	}
	if err := db.WithContext(ctx).Model(&rec).Where("id = ?", id).Updates(cols).Error; err != nil {
		return nil, err
	}
	if err := db.WithContext(ctx).Where("id = ?", id).First(&rec).Error; err != nil {
		return nil, translate(err)
	}
	return &rec, nil
}

func byStudent(db *gorm.DB, f Filter) *gorm.DB {
	if f.StudentID != "" {
		return db.Where("student_id = ?", f.StudentID)
	}
	return db
}

func (s *GormStore) CreateUser(ctx context.Context, u *models.User) error {
	return translate(s.DB.WithContext(ctx).Create(u).Error)
}

func (s *GormStore) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	if err := s.DB.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (s *GormStore) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.DB.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (s *GormStore) ListUsers(ctx context.Context) ([]models.User, error) {
	users := []models.User{}
	err := s.DB.WithContext(ctx).Order("join_date DESC").Find(&users).Error
	return users, err
}

func (s *GormStore) DeleteUser(ctx context.Context, id string) error {
	res := s.DB.WithContext(ctx).Where("id = ?", id).Delete(&models.User{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) CreateComplaint(ctx context.Context, c *models.Complaint) error {
	return translate(s.DB.WithContext(ctx).Create(c).Error)
}

func (s *GormStore) ListComplaints(ctx context.Context, f Filter) ([]models.Complaint, error) {
	out := []models.Complaint{}
	err := byStudent(s.DB.WithContext(ctx), f).Order("date DESC").Find(&out).Error
	return out, err
}

func (s *GormStore) UpdateComplaintStatus(ctx context.Context, id string, status models.ComplaintStatus) (*models.Complaint, error) {
	return patch[models.Complaint](ctx, s.DB, id, map[string]interface{}{"status": status})
}

func (s *GormStore) CreateServiceRequest(ctx context.Context, r *models.ServiceRequest) error {
	return translate(s.DB.WithContext(ctx).Create(r).Error)
}

func (s *GormStore) ListServiceRequests(ctx context.Context, f Filter) ([]models.ServiceRequest, error) {
	out := []models.ServiceRequest{}
	err := byStudent(s.DB.WithContext(ctx), f).Order("requested_date DESC").Find(&out).Error
	return out, err
}

func (s *GormStore) UpdateServiceRequest(ctx context.Context, id string, p ServicePatch) (*models.ServiceRequest, error) {
	cols := map[string]interface{}{"status": p.Status}
	if p.ScheduledDate != nil {
		cols["scheduled_date"] = *p.ScheduledDate
	}
	return patch[models.ServiceRequest](ctx, s.DB, id, cols)
}

func (s *GormStore) CreateLeaveRequest(ctx context.Context, l *models.LeaveRequest) error {
	return translate(s.DB.WithContext(ctx).Create(l).Error)
}

func (s *GormStore) ListLeaveRequests(ctx context.Context, f Filter) ([]models.LeaveRequest, error) {
	out := []models.LeaveRequest{}
	err := byStudent(s.DB.WithContext(ctx), f).Order("submission_date DESC").Find(&out).Error
	return out, err
}

func (s *GormStore) UpdateLeaveStatus(ctx context.Context, id string, status models.LeaveStatus) (*models.LeaveRequest, error) {
	return patch[models.LeaveRequest](ctx, s.DB, id, map[string]interface{}{"status": status})
}

func (s *GormStore) CreatePayment(ctx context.Context, p *models.Payment) error {
	return translate(s.DB.WithContext(ctx).Create(p).Error)
}

func (s *GormStore) ListPayments(ctx context.Context, f Filter) ([]models.Payment, error) {
	out := []models.Payment{}
	err := byStudent(s.DB.WithContext(ctx), f).Order("due_date ASC").Find(&out).Error
	return out, err
}

func (s *GormStore) FindPaymentByID(ctx context.Context, id string) (*models.Payment, error) {
	var p models.Payment
	if err := s.DB.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (s *GormStore) UpdatePayment(ctx context.Context, id string, p PaymentPatch) (*models.Payment, error) {
	cols := map[string]interface{}{"status": p.Status}
	if p.PaidOn != nil {
		cols["paid_on"] = *p.PaidOn
	}
	if p.TransactionID != "" {
		cols["transaction_id"] = p.TransactionID
	}
	if !p.UnlessPaid {
		return patch[models.Payment](ctx, s.DB, id, cols)
	}

	res := s.DB.WithContext(ctx).Model(&models.Payment{}).
		Where("id = ? AND status <> ?", id, models.PaymentPaid).
		Updates(cols)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		if _, err := s.FindPaymentByID(ctx, id); err != nil {
			return nil, err
		}
		return nil, ErrConflict
	}
	return s.FindPaymentByID(ctx, id)
}

func (s *GormStore) MarkOverduePayments(ctx context.Context, now time.Time) (int64, error) {
	res := s.DB.WithContext(ctx).Model(&models.Payment{}).
		Where("status = ? AND due_date < ?", models.PaymentPending, now).
		Update("status", models.PaymentOverdue)
	return res.RowsAffected, res.Error
}

func (s *GormStore) CreateAnnouncement(ctx context.Context, a *models.Announcement) error {
	return translate(s.DB.WithContext(ctx).Create(a).Error)
}

func (s *GormStore) ListAnnouncements(ctx context.Context) ([]models.Announcement, error) {
	out := []models.Announcement{}
	err := s.DB.WithContext(ctx).Order("date DESC").Find(&out).Error
	return out, err
}

func (s *GormStore) DeleteByStudent(ctx context.Context, c Collection, studentID string) (int64, error) {
	var model interface{}
	switch c {
	case Complaints:
		model = &models.Complaint{}
	case ServiceRequests:
		model = &models.ServiceRequest{}
	case LeaveRequests:
		model = &models.LeaveRequest{}
	case Payments:
		model = &models.Payment{}
	default:
		return 0, fmt.Errorf("unknown collection %q", c)
	}
	res := s.DB.WithContext(ctx).Where("student_id = ?", studentID).Delete(model)
	return res.RowsAffected, res.Error
}

func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *GormStore) Close() error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
