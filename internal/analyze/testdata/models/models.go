// Package models holds annotated types for loader tests.
package models

import (
	stdjson "encoding/json"
	"sync"
	"time"
)

// User is an account.
//
//gusket:all
//gusket:vis=priv
type User struct {
	// name is the display name.
	name      string
	email     string             `gusket:"immut"`
	createdAt time.Time          `json:"created_at" gusket:"copy"`
	raw       stdjson.RawMessage `gusket:"skip"`
	sync.Mutex
	_ int
}

func (u *User) String() string { return u.name }

// Box holds values.
type Box[K comparable, V any] struct {
	items map[K]V `gusket:""`
	count int
}

//gusket
type Color int

type plain struct {
	a int
}

// Pair only embeds.
//
//gusket
type Pair struct {
	time.Time
	sync.Mutex
}

//gusket
type Empty struct{}

//gusket
type Shape interface {
	Area() float64
}

type (
	// Grouped has its own doc.
	//
	//gusket:immut
	Grouped struct {
		id int
	}
)

// Spaced forgot the colon.
//
//gusket all
type Spaced struct {
	v int
}

//gusketry is somebody else's marker.
type Other struct {
	v int
}
