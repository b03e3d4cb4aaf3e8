package family

import "strconv"

// Gender of a member.
type Gender string

const (
	Male   Gender = "male"
	Female Gender = "female"
)

// Label returns the Chinese display label for g.
func (g Gender) Label() string {
	if g == Female {
		return "女"
	}
	return "男"
}

// PhotoCrop positions a member photo inside its avatar frame.
type PhotoCrop struct {
	X     float64 `json:"x" bson:"x"`         // offset, percent
	Y     float64 `json:"y" bson:"y"`         // offset, percent
	Scale float64 `json:"scale" bson:"scale"` // zoom ratio
}

// Story is a dated anecdote attached to a member.
type Story struct {
	ID        int      `json:"id" bson:"id"`
	Title     string   `json:"title" bson:"title"`
	Year      *int     `json:"year,omitempty" bson:"year,omitempty"`
	Content   string   `json:"content" bson:"content"`
	Photos    []string `json:"photos,omitempty" bson:"photos,omitempty"`
	CreatedAt string   `json:"createdAt,omitempty" bson:"created_at,omitempty"`
}

// Member is one person in one generation.
//
// Optional numeric fields are pointers: nil means "unknown" and is distinct
// from an explicit zero.
type Member struct {
	ID         int        `json:"id" bson:"id"`
	APIID      string     `json:"apiId,omitempty" bson:"api_id,omitempty"`
	Name       string     `json:"name" bson:"name"`
	Gender     Gender     `json:"gender" bson:"gender"`
	BirthOrder *int       `json:"birthOrder,omitempty" bson:"birth_order,omitempty"`
	BirthYear  *int       `json:"birthYear,omitempty" bson:"birth_year,omitempty"`
	DeathYear  *int       `json:"deathYear,omitempty" bson:"death_year,omitempty"`
	Hometown   string     `json:"hometown,omitempty" bson:"hometown,omitempty"`
	Bio        string     `json:"bio,omitempty" bson:"bio,omitempty"`
	Photo      string     `json:"photo,omitempty" bson:"photo,omitempty"`
	PhotoCrop  *PhotoCrop `json:"photoCrop,omitempty" bson:"photo_crop,omitempty"`
	ParentID   Ref        `json:"parentId,omitzero" bson:"parent_id,omitempty"`
	MotherID   Ref        `json:"motherId,omitzero" bson:"mother_id,omitempty"`
	SpouseID   Ref        `json:"spouseId,omitzero" bson:"spouse_id,omitempty"` // legacy single spouse
	SpouseIDs  []Ref      `json:"spouseIds,omitempty" bson:"spouse_ids,omitempty"`
	Albums     []string   `json:"albums,omitempty" bson:"albums,omitempty"`
	Stories    []Story    `json:"stories,omitempty" bson:"stories,omitempty"`
}

// Key returns the identifier the remote service expects for m:
// the server id when known, otherwise the local id.
func (m Member) Key() string {
	if m.APIID != "" {
		return m.APIID
	}
	return strconv.Itoa(m.ID)
}

// Generation is one tier of the tree.
type Generation struct {
	ID      int      `json:"id" bson:"id"`
	APIID   string   `json:"apiId,omitempty" bson:"api_id,omitempty"`
	Name    string   `json:"name" bson:"name"`
	Members []Member `json:"members" bson:"members"`
}

// Key returns the server id of g when known, otherwise its local id.
func (g Generation) Key() string {
	if g.APIID != "" {
		return g.APIID
	}
	return strconv.Itoa(g.ID)
}

// Settings holds display metadata for a family. None of it affects ordering.
type Settings struct {
	FamilyName       string   `json:"familyName" bson:"family_name"`
	Subtitle         string   `json:"subtitle,omitempty" bson:"subtitle,omitempty"`
	FamilySubtitle   string   `json:"familySubtitle,omitempty" bson:"family_subtitle,omitempty"`
	Hometown         string   `json:"hometown" bson:"hometown"`
	Theme            string   `json:"theme" bson:"theme"`
	BgImages         []string `json:"bgImages,omitempty" bson:"bg_images,omitempty"`
	BackgroundImages []string `json:"backgroundImages,omitempty" bson:"background_images,omitempty"`
	ShowConnections  bool     `json:"showConnections" bson:"show_connections"`
	ZoomLevel        float64  `json:"zoomLevel" bson:"zoom_level"`
}

// DisplaySubtitle returns Subtitle, falling back to its FamilySubtitle alias.
func (s Settings) DisplaySubtitle() string {
	if s.Subtitle != "" {
		return s.Subtitle
	}
	return s.FamilySubtitle
}

// FamilyData is the root document returned by the remote service.
type FamilyData struct {
	APIID       string       `json:"apiId,omitempty" bson:"api_id,omitempty"`
	Settings    Settings     `json:"settings" bson:"settings"`
	Generations []Generation `json:"generations" bson:"generations"`
}

// MemberCount returns the number of members across all generations.
func (d FamilyData) MemberCount() int {
	n := 0
	for _, g := range d.Generations {
		n += len(g.Members)
	}
	return n
}

// User is an account on the remote service.
type User struct {
	ID       string `json:"id" bson:"id"`
	Email    string `json:"email" bson:"email"`
	Nickname string `json:"nickname" bson:"nickname"`
	Phone    string `json:"phone,omitempty" bson:"phone,omitempty"`
	Avatar   string `json:"avatar,omitempty" bson:"avatar,omitempty"`
	Role     string `json:"role" bson:"role"`     // admin | user
	Status   string `json:"status" bson:"status"` // active | disabled
}

// FamilyListItem is the summary shape returned by the family list endpoint.
type FamilyListItem struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Subtitle  string `json:"subtitle,omitempty"`
	Hometown  string `json:"hometown,omitempty"`
	Theme     string `json:"theme"`
	UpdatedAt string `json:"updatedAt"`
}

// Int returns a pointer to n, for optional fields.
func Int(n int) *int { return &n }
