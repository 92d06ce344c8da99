package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/yeremiapane/hostel-app/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	usersCollection         = "users"
	announcementsCollection = "announcements"
)

// MongoStore implements Store on MongoDB, one collection per entity.
type MongoStore struct {
	client  *mongo.Client
	db      *mongo.Database
	timeout time.Duration
}

// OpenMongo connects to uri, selects dbName and makes sure the indexes exist.
func OpenMongo(ctx context.Context, uri, dbName string) (*MongoStore, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	s := &MongoStore{
		client:  client,
		db:      client.Database(dbName),
		timeout: 5 * time.Second,
	}
	if err := s.ensureIndexes(connectCtx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return s, nil
}

func (s *MongoStore) ensureIndexes(ctx context.Context) error {
	_, err := s.db.Collection(usersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("users email index: %w", err)
	}
	for _, c := range OwnedCollections {
		_, err := s.db.Collection(string(c)).Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys: bson.D{{Key: "student", Value: 1}},
		})
		if err != nil {
			return fmt.Errorf("%s student index: %w", c, err)
		}
	}
	return nil
}

func (s *MongoStore) coll(name string) *mongo.Collection {
	return s.db.Collection(name)
}

func (s *MongoStore) ctx(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, s.timeout)
}

func studentFilter(f Filter) (bson.M, error) {
	if f.StudentID == "" {
		return bson.M{}, nil
	}
	id, err := objectID(f.StudentID)
	if err != nil {
		// An id that cannot exist owns nothing.
		return bson.M{"_id": primitive.NilObjectID}, nil
	}
	return bson.M{"student": id}, nil
}

func findAll[M any, D interface{ model() M }](ctx context.Context, coll *mongo.Collection, filter interface{}, sort bson.D) ([]M, error) {
	cursor, err := coll.Find(ctx, filter, options.Find().SetSort(sort))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []D
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]M, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.model())
	}
	return out, nil
}

// byID builds the _id match for a hex id. Ids that cannot be ObjectIDs
// name nothing and yield ErrNotFound.
func byID(id string) (bson.M, error) {
	oid, err := objectID(id)
	if err != nil || oid.IsZero() {
		return nil, ErrNotFound
	}
	return bson.M{"_id": oid}, nil
}

func setByID[M any, D interface{ model() M }](ctx context.Context, coll *mongo.Collection, id string, set bson.M) (*M, error) {
	return setWhere[M, D](ctx, coll, id, nil, set)
}

// setWhere updates the document with id when it also matches cond. A
// document that exists but fails cond yields ErrConflict.
func setWhere[M any, D interface{ model() M }](ctx context.Context, coll *mongo.Collection, id string, cond bson.M, set bson.M) (*M, error) {
	filter, err := byID(id)
	if err != nil {
		return nil, err
	}
	for k, v := range cond {
		filter[k] = v
	}
	var doc D
	err = coll.FindOneAndUpdate(ctx,
		filter,
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		if len(cond) == 0 {
			return nil, ErrNotFound
		}
		idOnly, _ := byID(id)
		n, cerr := coll.CountDocuments(ctx, idOnly)
		if cerr != nil {
			return nil, cerr
		}
		if n == 0 {
			return nil, ErrNotFound
		}
		return nil, ErrConflict
	}
	if err != nil {
		return nil, err
	}
	m := doc.model()
	return &m, nil
}

func insertedID(res *mongo.InsertOneResult) string {
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		return oid.Hex()
	}
	return ""
}

func (s *MongoStore) CreateUser(ctx context.Context, u *models.User) error {
	ctx, cancel := s.ctx(ctx)
	defer cancel()

	res, err := s.coll(usersCollection).InsertOne(ctx, newUserDoc(u))
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicateEmail
	}
	if err != nil {
		return err
	}
	u.ID = insertedID(res)
	return nil
}

func (s *MongoStore) findUser(ctx context.Context, filter bson.M) (*models.User, error) {
	ctx, cancel := s.ctx(ctx)
	defer cancel()

	var doc userDoc
	err := s.coll(usersCollection).FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	u := doc.model()
	return &u, nil
}

func (s *MongoStore) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	filter, err := byID(id)
	if err != nil {
		return nil, err
	}
	return s.findUser(ctx, filter)
}

func (s *MongoStore) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findUser(ctx, bson.M{"email": email})
}

func (s *MongoStore) ListUsers(ctx context.Context) ([]models.User, error) {
	ctx, cancel := s.ctx(ctx)
	defer cancel()
	return findAll[models.User, userDoc](ctx, s.coll(usersCollection), bson.M{}, bson.D{{Key: "joinDate", Value: -1}})
}

func (s *MongoStore) DeleteUser(ctx context.Context, id string) error {
	filter, err := byID(id)
	if err != nil {
		return err
	}
	ctx, cancel := s.ctx(ctx)
	defer cancel()

	res, err := s.coll(usersCollection).DeleteOne(ctx, filter)
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) CreateComplaint(ctx context.Context, c *models.Complaint) error {
	doc, err := newComplaintDoc(c)
	if err != nil {
		return err
	}
	ctx, cancel := s.ctx(ctx)
	defer cancel()

	res, err := s.coll(string(Complaints)).InsertOne(ctx, doc)
	if err != nil {
		return err
	}
	c.ID = insertedID(res)
	return nil
}

func (s *MongoStore) ListComplaints(ctx context.Context, f Filter) ([]models.Complaint, error) {
	filter, err := studentFilter(f)
	if err != nil {
		return nil, err
	}
	ctx, cancel := s.ctx(ctx)
	defer cancel()
	return findAll[models.Complaint, complaintDoc](ctx, s.coll(string(Complaints)), filter, bson.D{{Key: "date", Value: -1}})
}

func (s *MongoStore) UpdateComplaintStatus(ctx context.Context, id string, status models.ComplaintStatus) (*models.Complaint, error) {
	ctx, cancel := s.ctx(ctx)
	defer cancel()
	return setByID[models.Complaint, complaintDoc](ctx, s.coll(string(Complaints)), id, bson.M{"status": string(status)})
}

func (s *MongoStore) CreateServiceRequest(ctx context.Context, r *models.ServiceRequest) error {
	doc, err := newServiceRequestDoc(r)
	if err != nil {
		return err
	}
	ctx, cancel := s.ctx(ctx)
	defer cancel()

	res, err := s.coll(string(ServiceRequests)).InsertOne(ctx, doc)
	if err != nil {
		return err
	}
	r.ID = insertedID(res)
	return nil
}

func (s *MongoStore) ListServiceRequests(ctx context.Context, f Filter) ([]models.ServiceRequest, error) {
	filter, err := studentFilter(f)
	if err != nil {
		return nil, err
	}
	ctx, cancel := s.ctx(ctx)
	defer cancel()
	return findAll[models.ServiceRequest, serviceRequestDoc](ctx, s.coll(string(ServiceRequests)), filter, bson.D{{Key: "requestedDate", Value: -1}})
}

func (s *MongoStore) UpdateServiceRequest(ctx context.Context, id string, p ServicePatch) (*models.ServiceRequest, error) {
	set := bson.M{"status": string(p.Status)}
	if p.ScheduledDate != nil {
		set["scheduledDate"] = *p.ScheduledDate
	}
	ctx, cancel := s.ctx(ctx)
	defer cancel()
	return setByID[models.ServiceRequest, serviceRequestDoc](ctx, s.coll(string(ServiceRequests)), id, set)
}

func (s *MongoStore) CreateLeaveRequest(ctx context.Context, l *models.LeaveRequest) error {
	doc, err := newLeaveRequestDoc(l)
	if err != nil {
		return err
	}
	ctx, cancel := s.ctx(ctx)
	defer cancel()

	res, err := s.coll(string(LeaveRequests)).InsertOne(ctx, doc)
	if err != nil {
		return err
	}
	l.ID = insertedID(res)
	return nil
}

func (s *MongoStore) ListLeaveRequests(ctx context.Context, f Filter) ([]models.LeaveRequest, error) {
	filter, err := studentFilter(f)
	if err != nil {
		return nil, err
	}
	ctx, cancel := s.ctx(ctx)
	defer cancel()
	return findAll[models.LeaveRequest, leaveRequestDoc](ctx, s.coll(string(LeaveRequests)), filter, bson.D{{Key: "submissionDate", Value: -1}})
}

func (s *MongoStore) UpdateLeaveStatus(ctx context.Context, id string, status models.LeaveStatus) (*models.LeaveRequest, error) {
	ctx, cancel := s.ctx(ctx)
	defer cancel()
	return setByID[models.LeaveRequest, leaveRequestDoc](ctx, s.coll(string(LeaveRequests)), id, bson.M{"status": string(status)})
}

func (s *MongoStore) CreatePayment(ctx context.Context, p *models.Payment) error {
	doc, err := newPaymentDoc(p)
	if err != nil {
		return err
	}
	ctx, cancel := s.ctx(ctx)
	defer cancel()

	res, err := s.coll(string(Payments)).InsertOne(ctx, doc)
	if err != nil {
		return err
	}
	p.ID = insertedID(res)
	return nil
}

func (s *MongoStore) ListPayments(ctx context.Context, f Filter) ([]models.Payment, error) {
	filter, err := studentFilter(f)
	if err != nil {
		return nil, err
	}
	ctx, cancel := s.ctx(ctx)
	defer cancel()
	return findAll[models.Payment, paymentDoc](ctx, s.coll(string(Payments)), filter, bson.D{{Key: "dueDate", Value: 1}})
}

func (s *MongoStore) FindPaymentByID(ctx context.Context, id string) (*models.Payment, error) {
	filter, err := byID(id)
	if err != nil {
		return nil, err
	}
	ctx, cancel := s.ctx(ctx)
	defer cancel()

	var doc paymentDoc
	err = s.coll(string(Payments)).FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	p := doc.model()
	return &p, nil
}

func (s *MongoStore) UpdatePayment(ctx context.Context, id string, p PaymentPatch) (*models.Payment, error) {
	set := bson.M{"status": string(p.Status)}
	if p.PaidOn != nil {
		set["paidOn"] = *p.PaidOn
	}
	if p.TransactionID != "" {
		set["transactionId"] = p.TransactionID
	}
	var cond bson.M
	if p.UnlessPaid {
		cond = bson.M{"status": bson.M{"$ne": string(models.PaymentPaid)}}
	}
	ctx, cancel := s.ctx(ctx)
	defer cancel()
	return setWhere[models.Payment, paymentDoc](ctx, s.coll(string(Payments)), id, cond, set)
}

func (s *MongoStore) MarkOverduePayments(ctx context.Context, now time.Time) (int64, error) {
	ctx, cancel := s.ctx(ctx)
	defer cancel()

	res, err := s.coll(string(Payments)).UpdateMany(ctx,
		bson.M{"status": string(models.PaymentPending), "dueDate": bson.M{"$lt": now}},
		bson.M{"$set": bson.M{"status": string(models.PaymentOverdue)}},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

func (s *MongoStore) CreateAnnouncement(ctx context.Context, a *models.Announcement) error {
	ctx, cancel := s.ctx(ctx)
	defer cancel()

	res, err := s.coll(announcementsCollection).InsertOne(ctx, newAnnouncementDoc(a))
	if err != nil {
		return err
	}
	a.ID = insertedID(res)
	return nil
}

func (s *MongoStore) ListAnnouncements(ctx context.Context) ([]models.Announcement, error) {
	ctx, cancel := s.ctx(ctx)
	defer cancel()
	return findAll[models.Announcement, announcementDoc](ctx, s.coll(announcementsCollection), bson.M{}, bson.D{{Key: "date", Value: -1}})
}

func (s *MongoStore) DeleteByStudent(ctx context.Context, c Collection, studentID string) (int64, error) {
	oid, err := objectID(studentID)
	if err != nil || oid.IsZero() {
		return 0, nil
	}
	ctx, cancel := s.ctx(ctx)
	defer cancel()

	res, err := s.coll(string(c)).DeleteMany(ctx, bson.M{"student": oid})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (s *MongoStore) Ping(ctx context.Context) error {
	ctx, cancel := s.ctx(ctx)
	defer cancel()
	return s.client.Ping(ctx, nil)
}

func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}
