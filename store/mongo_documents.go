package store

import (
	"time"

	"github.com/yeremiapane/hostel-app/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Mongo keeps identifiers as ObjectIDs under _id; the rest of the app only
// sees their hex form in the models' ID and StudentID fields.

func objectID(hex string) (primitive.ObjectID, error) {
	if hex == "" {
		return primitive.NilObjectID, nil
	}
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, ErrNotFound
	}
	return id, nil
}

func hexOf(id primitive.ObjectID) string {
	if id.IsZero() {
		return ""
	}
	return id.Hex()
}

type userDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	Email     string             `bson:"email"`
	Password  string             `bson:"password"`
	Role      string             `bson:"role"`
	Room      string             `bson:"room,omitempty"`
	Contact   string             `bson:"contact,omitempty"`
	IsStudent bool               `bson:"isStudent"`
	JoinDate  time.Time          `bson:"joinDate"`
	Status    string             `bson:"status"`
}

func (d userDoc) model() models.User {
	return models.User{
		ID:        hexOf(d.ID),
		Name:      d.Name,
		Email:     d.Email,
		Password:  d.Password,
		Role:      models.Role(d.Role),
		Room:      d.Room,
		Contact:   d.Contact,
		IsStudent: d.IsStudent,
		JoinDate:  d.JoinDate,
		Status:    models.UserStatus(d.Status),
	}
}

func newUserDoc(u *models.User) userDoc {
	return userDoc{
		Name:      u.Name,
		Email:     u.Email,
		Password:  u.Password,
		Role:      string(u.Role),
		Room:      u.Room,
		Contact:   u.Contact,
		IsStudent: u.IsStudent,
		JoinDate:  u.JoinDate,
		Status:    string(u.Status),
	}
}

type complaintDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Title       string             `bson:"title"`
	Description string             `bson:"description"`
	Priority    string             `bson:"priority"`
	Status      string             `bson:"status"`
	Category    string             `bson:"category"`
	Student     primitive.ObjectID `bson:"student,omitempty"`
	StudentName string             `bson:"studentName"`
	Room        string             `bson:"room"`
	Date        time.Time          `bson:"date"`
}

func (d complaintDoc) model() models.Complaint {
	return models.Complaint{
		ID:          hexOf(d.ID),
		Title:       d.Title,
		Description: d.Description,
		Priority:    models.Priority(d.Priority),
		Status:      models.ComplaintStatus(d.Status),
		Category:    d.Category,
		StudentID:   hexOf(d.Student),
		StudentName: d.StudentName,
		Room:        d.Room,
		Date:        d.Date,
	}
}

func newComplaintDoc(c *models.Complaint) (complaintDoc, error) {
	student, err := objectID(c.StudentID)
	if err != nil {
		return complaintDoc{}, err
	}
	return complaintDoc{
		Title:       c.Title,
		Description: c.Description,
		Priority:    string(c.Priority),
		Status:      string(c.Status),
		Category:    c.Category,
		Student:     student,
		StudentName: c.StudentName,
		Room:        c.Room,
		Date:        c.Date,
	}, nil
}

type serviceRequestDoc struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	ServiceType   string             `bson:"serviceType"`
	Description   string             `bson:"description"`
	Status        string             `bson:"status"`
	Student       primitive.ObjectID `bson:"student,omitempty"`
	StudentName   string             `bson:"studentName"`
	Room          string             `bson:"room"`
	RequestedDate time.Time          `bson:"requestedDate"`
	ScheduledDate *time.Time         `bson:"scheduledDate,omitempty"`
}

func (d serviceRequestDoc) model() models.ServiceRequest {
	return models.ServiceRequest{
		ID:            hexOf(d.ID),
		ServiceType:   d.ServiceType,
		Description:   d.Description,
		Status:        models.ServiceStatus(d.Status),
		StudentID:     hexOf(d.Student),
		StudentName:   d.StudentName,
		Room:          d.Room,
		RequestedDate: d.RequestedDate,
		ScheduledDate: d.ScheduledDate,
	}
}

func newServiceRequestDoc(r *models.ServiceRequest) (serviceRequestDoc, error) {
	student, err := objectID(r.StudentID)
	if err != nil {
		return serviceRequestDoc{}, err
	}
	return serviceRequestDoc{
		ServiceType:   r.ServiceType,
		Description:   r.Description,
		Status:        string(r.Status),
		Student:       student,
		StudentName:   r.StudentName,
		Room:          r.Room,
		RequestedDate: r.RequestedDate,
		ScheduledDate: r.ScheduledDate,
	}, nil
}

type leaveRequestDoc struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	StartDate      time.Time          `bson:"startDate"`
	EndDate        time.Time          `bson:"endDate"`
	Days           int                `bson:"days"`
	Reason         string             `bson:"reason"`
	Status         string             `bson:"status"`
	Student        primitive.ObjectID `bson:"student,omitempty"`
	StudentName    string             `bson:"studentName"`
	Room           string             `bson:"room"`
	SubmissionDate time.Time          `bson:"submissionDate"`
}

func (d leaveRequestDoc) model() models.LeaveRequest {
	return models.LeaveRequest{
		ID:             hexOf(d.ID),
		StartDate:      d.StartDate,
		EndDate:        d.EndDate,
		Days:           d.Days,
		Reason:         d.Reason,
		Status:         models.LeaveStatus(d.Status),
		StudentID:      hexOf(d.Student),
		StudentName:    d.StudentName,
		Room:           d.Room,
		SubmissionDate: d.SubmissionDate,
	}
}

func newLeaveRequestDoc(l *models.LeaveRequest) (leaveRequestDoc, error) {
	student, err := objectID(l.StudentID)
	if err != nil {
		return leaveRequestDoc{}, err
	}
	return leaveRequestDoc{
		StartDate:      l.StartDate,
		EndDate:        l.EndDate,
		Days:           l.Days,
		Reason:         l.Reason,
		Status:         string(l.Status),
		Student:        student,
		StudentName:    l.StudentName,
		Room:           l.Room,
		SubmissionDate: l.SubmissionDate,
	}, nil
}

type paymentDoc struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	Title         string             `bson:"title"`
	Amount        float64            `bson:"amount"`
	DueDate       time.Time          `bson:"dueDate"`
	Status        string             `bson:"status"`
	PaidOn        *time.Time         `bson:"paidOn,omitempty"`
	TransactionID string             `bson:"transactionId,omitempty"`
	Student       primitive.ObjectID `bson:"student"`
	StudentName   string             `bson:"studentName"`
	Room          string             `bson:"room"`
}

func (d paymentDoc) model() models.Payment {
	return models.Payment{
		ID:            hexOf(d.ID),
		Title:         d.Title,
		Amount:        d.Amount,
		DueDate:       d.DueDate,
		Status:        models.PaymentStatus(d.Status),
		PaidOn:        d.PaidOn,
		TransactionID: d.TransactionID,
		StudentID:     hexOf(d.Student),
		StudentName:   d.StudentName,
		Room:          d.Room,
	}
}

func newPaymentDoc(p *models.Payment) (paymentDoc, error) {
	student, err := objectID(p.StudentID)
	if err != nil {
		return paymentDoc{}, err
	}
	return paymentDoc{
		Title:         p.Title,
		Amount:        p.Amount,
		DueDate:       p.DueDate,
		Status:        string(p.Status),
		PaidOn:        p.PaidOn,
		TransactionID: p.TransactionID,
		Student:       student,
		StudentName:   p.StudentName,
		Room:          p.Room,
	}, nil
}

type announcementDoc struct {
	ID       primitive.ObjectID `bson:"_id,omitempty"`
	Title    string             `bson:"title"`
	Content  string             `bson:"content"`
	Type     string             `bson:"type"`
	IsPinned bool               `bson:"isPinned"`
	Date     time.Time          `bson:"date"`
}

func (d announcementDoc) model() models.Announcement {
	return models.Announcement{
		ID:       hexOf(d.ID),
		Title:    d.Title,
		Content:  d.Content,
		Type:     models.AnnouncementType(d.Type),
		IsPinned: d.IsPinned,
		Date:     d.Date,
	}
}

func newAnnouncementDoc(a *models.Announcement) announcementDoc {
	return announcementDoc{
		Title:    a.Title,
		Content:  a.Content,
		Type:     string(a.Type),
		IsPinned: a.IsPinned,
		Date:     a.Date,
	}
}
