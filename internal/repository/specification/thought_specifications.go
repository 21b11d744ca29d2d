package specification

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ByMood filters on the mood column (equality)
type ByMood struct {
	Mood string
}

func (s ByMood) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("mood = ?", s.Mood)
}

// HasTag filters thoughts whose jsonb tag array contains the tag
type HasTag struct {
	Tag string
}

func (s HasTag) Apply(db *gorm.DB) *gorm.DB {
	return db.Where(datatypes.JSONArrayQuery("tags").Contains(s.Tag))
}

// TextContains does a case-insensitive substring search on the text column
type TextContains struct {
	Search string
}

func (s TextContains) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("text ILIKE ?", "%"+s.Search+"%")
}
