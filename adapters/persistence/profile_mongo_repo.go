package persistence

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/khoahotran/profile-builder/internal/domain/profile"
	"github.com/khoahotran/profile-builder/pkg/apperror"
	"github.com/khoahotran/profile-builder/pkg/logger"
)

const profileCollection = "profiles"

type educationDocument struct {
	ID      primitive.ObjectID `bson:"_id"`
	Degree  string             `bson:"degree"`
	College string             `bson:"college"`
	Year    string             `bson:"year"`
}

type projectDocument struct {
	ID          primitive.ObjectID `bson:"_id"`
	Name        string             `bson:"name"`
	Description string             `bson:"description"`
	TechStack   []string           `bson:"techStack"`
	Link        string             `bson:"link"`
}

type skillDocument struct {
	ID     primitive.ObjectID `bson:"_id"`
	Name   string             `bson:"name"`
	Rating int                `bson:"rating"`
}

type linksDocument struct {
	GitHub    string `bson:"github"`
	LinkedIn  string `bson:"linkedin"`
	Portfolio string `bson:"portfolio"`
}

type profileDocument struct {
	Key            string              `bson:"profileKey"`
	FullName       string              `bson:"fullName"`
	Email          string              `bson:"email"`
	Phone          string              `bson:"phone"`
	Title          string              `bson:"title"`
	Summary        string              `bson:"summary"`
	Links          linksDocument       `bson:"links"`
	ProfilePicture *string             `bson:"profilePicture"`
	Education      []educationDocument `bson:"education"`
	Projects       []projectDocument   `bson:"projects"`
	Skills         []skillDocument     `bson:"skills"`
	CreatedAt      time.Time           `bson:"createdAt"`
	UpdatedAt      time.Time           `bson:"updatedAt"`
}

type mongoProfileRepo struct {
	coll   *mongo.Collection
	logger logger.Logger
}

// NewMongoProfileRepo returns a store over the profiles collection. Call EnsureIndexes
// once at startup; the unique profileKey index is what keeps upserts from duplicating.
func NewMongoProfileRepo(db *mongo.Database, logger logger.Logger) *mongoProfileRepo {
	return &mongoProfileRepo{coll: db.Collection(profileCollection), logger: logger}
}

func (r *mongoProfileRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "profileKey", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("uniq_profile_key"),
	})
	if err != nil {
		return apperror.NewInternal("failed to create profile indexes", err)
	}
	return nil
}

func (r *mongoProfileRepo) Get(ctx context.Context, key profile.Key) (*profile.Profile, error) {
	var doc profileDocument
	err := r.coll.FindOne(ctx, bson.M{"profileKey": string(key)}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperror.NewNotFound("profile", string(key))
		}
		return nil, apperror.NewInternal("failed to query profile", err)
	}
	return doc.toDomain(), nil
}

func (r *mongoProfileRepo) FindOrCreate(ctx context.Context, key profile.Key) (*profile.Profile, error) {
	now := time.Now().UTC()
	empty := fromDomain(key, profile.New())
	empty.CreatedAt, empty.UpdatedAt = now, now

	update := bson.M{"$setOnInsert": empty}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var doc profileDocument
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"profileKey": string(key)}, update, opts).Decode(&doc)
	if mongo.IsDuplicateKeyError(err) {
		// Lost an insert race; the winner's document is there now.
		return r.Get(ctx, key)
	}
	if err != nil {
		return nil, apperror.NewInternal("failed to find or create profile", err)
	}
	return doc.toDomain(), nil
}

func (r *mongoProfileRepo) Save(ctx context.Context, key profile.Key, p *profile.Profile) error {
	p.Normalize()
	p.AssignIDs(func() string { return primitive.NewObjectID().Hex() })

	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now

	doc := fromDomain(key, p)
	_, err := r.coll.ReplaceOne(ctx, bson.M{"profileKey": string(key)}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return apperror.NewInternal("failed to save profile", err)
	}
	return nil
}

func (d profileDocument) toDomain() *profile.Profile {
	p := &profile.Profile{
		FullName:       d.FullName,
		Email:          d.Email,
		Phone:          d.Phone,
		Title:          d.Title,
		Summary:        d.Summary,
		Links:          profile.Links(d.Links),
		ProfilePicture: d.ProfilePicture,
		Education:      make([]profile.Education, len(d.Education)),
		Projects:       make([]profile.Project, len(d.Projects)),
		Skills:         make([]profile.Skill, len(d.Skills)),
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
	for i, e := range d.Education {
		p.Education[i] = profile.Education{ID: e.ID.Hex(), Degree: e.Degree, College: e.College, Year: e.Year}
	}
	for i, pr := range d.Projects {
		p.Projects[i] = profile.Project{ID: pr.ID.Hex(), Name: pr.Name, Description: pr.Description, TechStack: pr.TechStack, Link: pr.Link}
	}
	for i, s := range d.Skills {
		p.Skills[i] = profile.Skill{ID: s.ID.Hex(), Name: s.Name, Rating: s.Rating}
	}
	p.Normalize()
	return p
}

// fromDomain expects entry ids to be ObjectID hex; anything else gets a fresh id.
func fromDomain(key profile.Key, p *profile.Profile) profileDocument {
	d := profileDocument{
		Key:            string(key),
		FullName:       p.FullName,
		Email:          p.Email,
		Phone:          p.Phone,
		Title:          p.Title,
		Summary:        p.Summary,
		Links:          linksDocument(p.Links),
		ProfilePicture: p.ProfilePicture,
		Education:      make([]educationDocument, len(p.Education)),
		Projects:       make([]projectDocument, len(p.Projects)),
		Skills:         make([]skillDocument, len(p.Skills)),
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
	for i := range p.Education {
		e := &p.Education[i]
		e.ID = objectIDHex(e.ID)
		oid, _ := primitive.ObjectIDFromHex(e.ID)
		d.Education[i] = educationDocument{ID: oid, Degree: e.Degree, College: e.College, Year: e.Year}
	}
	for i := range p.Projects {
		pr := &p.Projects[i]
		pr.ID = objectIDHex(pr.ID)
		oid, _ := primitive.ObjectIDFromHex(pr.ID)
		d.Projects[i] = projectDocument{ID: oid, Name: pr.Name, Description: pr.Description, TechStack: pr.TechStack, Link: pr.Link}
	}
	for i := range p.Skills {
		s := &p.Skills[i]
		s.ID = objectIDHex(s.ID)
		oid, _ := primitive.ObjectIDFromHex(s.ID)
		d.Skills[i] = skillDocument{ID: oid, Name: s.Name, Rating: s.Rating}
	}
	return d
}

func objectIDHex(id string) string {
	if primitive.IsValidObjectID(id) {
		return id
	}
	return primitive.NewObjectID().Hex()
}
