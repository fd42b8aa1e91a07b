package models

import (
	"strings"
	"time"
)

// User is a registered account.
//
//buildergen:generate
//buildergen:name=UserMaker
type User struct {
	Name    string
	Email   string        `json:"email" builder:"default=strings.ToLower(Name) + \"@example.com\""`
	Timeout time.Duration `builder:"default=time.Second,doc=How long requests may take."`
	Tags    []string      `builder:"default=[]string{\"a\", \"b\"}"`
	Created int64         `builder:"default,exclude"`
}

// Pair is a generic key/value pair.
//
//buildergen:generate
//buildergen:nodoc
type Pair[K comparable, V any] struct {
	Key K
	Val V `builder:"default"`
}

// Ignored has no directive.
type Ignored struct {
	A int
}
