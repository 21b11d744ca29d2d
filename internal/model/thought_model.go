package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

type Thought struct {
	Id          uuid.UUID                   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Text        string                      `gorm:"type:text;not null"`
	Tags        datatypes.JSONSlice[string] `gorm:"type:jsonb"`
	Mood        string                      `gorm:"type:varchar(20);index"`
	Connections datatypes.JSONSlice[string] `gorm:"type:jsonb"`
	Embedding   *pgvector.Vector            `gorm:"type:vector(768)"` // text-embedding-004 uses 768 dimensions
	CreatedAt   time.Time                   `gorm:"autoCreateTime;index"`
}

func (Thought) TableName() string {
	return "thoughts"
}
