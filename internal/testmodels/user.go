/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package testmodels holds struct models shared by tests.
package testmodels

import (
	"github.com/go-openapi/strfmt"
	"github.com/suparena/kvbridge/model"
)

// User is an account stored as the User model.
type User struct {

	// Assigned by the store on create.
	ID int64 `json:"id"`

	// Login email, indexed.
	// Required: true
	Email string `json:"email"`

	// Display name.
	Name string `json:"name,omitempty"`

	// Role, indexed.
	Role string `json:"role,omitempty"`

	Age int64 `json:"age"`

	Admin bool `json:"admin"`

	// Format: date-time
	JoinedAt strfmt.DateTime `json:"joinedAt"`
}

// UserDescriptor is the model definition matching User.
func UserDescriptor() model.Descriptor {
	return model.Descriptor{
		Name: "User",
		Properties: []model.Property{
			{Name: "email", Type: model.String, Index: true},
			{Name: "name", Type: model.String},
			{Name: "role", Type: model.String, Index: true},
			{Name: "age", Type: model.Number},
			{Name: "admin", Type: model.Boolean},
			{Name: "joinedAt", Type: model.Date},
		},
	}
}
