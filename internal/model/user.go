// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines the domain types of landkit: pages and their blocks,
// users with their plan tiers, and the error taxonomy.
package model

import "time"

// PlanTier is the capability level of an account.
type PlanTier string

// Plan tiers
const (
	PlanFree PlanTier = "free"
	PlanPro  PlanTier = "pro"
)

// Valid reports whether t is a known tier.
func (t PlanTier) Valid() bool {
	return t == PlanFree || t == PlanPro
}

// User is an account that owns pages.
type User struct {
	ID            string     `json:"id"`
	Email         string     `json:"email"`
	Name          string     `json:"name"`
	Plan          PlanTier   `json:"plan"`
	PlanExpiresAt *time.Time `json:"planExpiresAt,omitempty"`
	APIKeyHash    string     `json:"-"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// EffectiveTier returns the tier in force at now. A paid plan past its
// expiry counts as free.
func (u *User) EffectiveTier(now time.Time) PlanTier {
	if u.Plan != PlanPro {
		return PlanFree
	}
	if u.PlanExpiresAt != nil && !now.Before(*u.PlanExpiresAt) {
		return PlanFree
	}
	return PlanPro
}

// Actor is the authenticated caller of an operation.
type Actor struct {
	ID   string   `json:"id"`
	Tier PlanTier `json:"tier"`
}

// Quotas are the limits attached to a plan tier.
type Quotas struct {
	MaxGalleryImages int  `json:"maxGalleryImages"`
	MaxPages         int  `json:"maxPages"`
	Ratings          bool `json:"ratings"`
	RemoveBranding   bool `json:"removeBranding"`
}

// PlanQuotas maps each tier to its quotas.
type PlanQuotas map[PlanTier]Quotas

// DefaultPlanQuotas returns the shipped limits (3 gallery images free, 30 pro).
func DefaultPlanQuotas() PlanQuotas {
	return PlanQuotas{
		PlanFree: {MaxGalleryImages: 3, MaxPages: 1},
		PlanPro:  {MaxGalleryImages: 30, MaxPages: 10, Ratings: true, RemoveBranding: true},
	}
}

// For returns the quotas of tier, falling back to the free tier.
func (q PlanQuotas) For(tier PlanTier) Quotas {
	if quotas, ok := q[tier]; ok {
		return quotas
	}
	return q[PlanFree]
}

// Capabilities is what the engine is handed on every mutating call.
type Capabilities struct {
	Tier   PlanTier
	Quotas Quotas
}

// CapabilitiesFor resolves the capabilities of an actor.
func (q PlanQuotas) CapabilitiesFor(a Actor) Capabilities {
	return Capabilities{Tier: a.Tier, Quotas: q.For(a.Tier)}
}
