package content

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mehmetcc/nursery/pkg/id"
)

// Documents keep the field names of the public site's existing JSON
// contract, including the "_id" key.

type Established struct {
	SrikanthNursery int `json:"srikanthNursery"`
	LaxmiAssociates int `json:"laxmiAssociates"`
}

type Contact struct {
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

type CompanyInfo struct {
	ID          id.PublicID `json:"_id"`
	Name        string      `json:"name"`
	Established Established `json:"established"`
	Experience  int         `json:"experience"`
	Area        string      `json:"area"`
	Location    string      `json:"location"`
	Turnover    string      `json:"turnover"`
	Mission     string      `json:"mission"`
	Vision      string      `json:"vision"`
	Contact     Contact     `json:"contact"`
}

type Service struct {
	ID          id.PublicID `json:"_id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Icon        string      `json:"icon"`
	Features    StringList  `json:"features"`
}

type Project struct {
	ID           id.PublicID `json:"_id"`
	Name         string      `json:"name"`
	Location     string      `json:"location"`
	Description  string      `json:"description"`
	Image        string      `json:"image"`
	Category     string      `json:"category"`
	PlantSpecies StringList  `json:"plantSpecies"`
	Featured     bool        `json:"featured"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

// ProjectDTO carries the writable fields of a project.
type ProjectDTO struct {
	Name         string
	Location     string
	Description  string
	Image        string
	Category     string
	PlantSpecies []string
	Featured     bool
}

type Client struct {
	ID           id.PublicID `json:"_id"`
	Name         string      `json:"name"`
	Type         string      `json:"type"`
	FullName     string      `json:"fullName"`
	Location     string      `json:"location"`
	ProjectValue string      `json:"projectValue"`
	Project      string      `json:"project"`
}

type Stats struct {
	Experience    int      `json:"experience"`
	Area          string   `json:"area"`
	Turnover      string   `json:"turnover"`
	TotalProjects int      `json:"totalProjects"`
	TotalServices int      `json:"totalServices"`
	TotalClients  int      `json:"totalClients"`
	Categories    []string `json:"categories"`
}

// StringList is stored as a JSONB array and always encodes as a JSON array,
// never null.
type StringList []string

func (s StringList) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(s))
}

func (s StringList) Value() (driver.Value, error) {
	return jsonValue(s)
}

func (s *StringList) Scan(src any) error {
	return scanJSON(src, s)
}

func (e Established) Value() (driver.Value, error) { return jsonValue(e) }
func (e *Established) Scan(src any) error          { return scanJSON(src, e) }
func (c Contact) Value() (driver.Value, error)     { return jsonValue(c) }
func (c *Contact) Scan(src any) error              { return scanJSON(src, c) }

func jsonValue(v any) (driver.Value, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func scanJSON(src any, dst any) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, dst)
	case string:
		return json.Unmarshal([]byte(v), dst)
	default:
		return fmt.Errorf("cannot scan %T into %T", src, dst)
	}
}
