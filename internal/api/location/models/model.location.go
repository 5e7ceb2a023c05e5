// Package models định nghĩa các model địa bàn 4 cấp: state → district →
// legislative assembly → booth. Đây là dữ liệu lookup cho chuỗi dropdown
// địa bàn của form.
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// State là cấp cao nhất của chuỗi địa bàn
type State struct {
	ID        primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Name      string             `json:"name" bson:"name" index:"unique"`
	CreatedAt int64              `json:"createdAt,omitempty" bson:"createdAt"`
	UpdatedAt int64              `json:"updatedAt,omitempty" bson:"updatedAt"`
}

// District thuộc một State
type District struct {
	ID        primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Name      string             `json:"name" bson:"name" index:"compound:parentId_name_unique"`
	ParentID  primitive.ObjectID `json:"parentId" bson:"parentId" index:"single:1;compound:parentId_name_unique"`
	CreatedAt int64              `json:"createdAt,omitempty" bson:"createdAt"`
	UpdatedAt int64              `json:"updatedAt,omitempty" bson:"updatedAt"`
}

// LegislativeAssembly thuộc một District
type LegislativeAssembly struct {
	ID        primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Name      string             `json:"name" bson:"name" index:"compound:parentId_name_unique"`
	ParentID  primitive.ObjectID `json:"parentId" bson:"parentId" index:"single:1;compound:parentId_name_unique"`
	CreatedAt int64              `json:"createdAt,omitempty" bson:"createdAt"`
	UpdatedAt int64              `json:"updatedAt,omitempty" bson:"updatedAt"`
}

// Booth là cấp thấp nhất, thuộc một LegislativeAssembly
type Booth struct {
	ID        primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Name      string             `json:"name" bson:"name" index:"compound:parentId_name_unique"`
	ParentID  primitive.ObjectID `json:"parentId" bson:"parentId" index:"single:1;compound:parentId_name_unique"`
	CreatedAt int64              `json:"createdAt,omitempty" bson:"createdAt"`
	UpdatedAt int64              `json:"updatedAt,omitempty" bson:"updatedAt"`
}
