// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package component

// Type is the variant tag of a block.
type Type string

// Registered variants, in palette order.
const (
	TypeHero         Type = "hero"
	TypeFeatures     Type = "features"
	TypeTestimonials Type = "testimonials"
	TypePricing      Type = "pricing"
	TypeCTA          Type = "cta"
	TypeContact      Type = "contact"
	TypeText         Type = "text"
	TypeImage        Type = "image"
	TypeVideo        Type = "video"
	TypeSpacer       Type = "spacer"
)

// Alignment values shared by hero, text and image blocks.
const (
	AlignLeft   = "left"
	AlignCenter = "center"
	AlignRight  = "right"
)

// Width values for image and video blocks.
const (
	WidthSmall  = "small"
	WidthMedium = "medium"
	WidthLarge  = "large"
	WidthFull   = "full"
)

// Video platforms.
const (
	PlatformYouTube = "youtube"
	PlatformVimeo   = "vimeo"
	PlatformCustom  = "custom"
)

// Spacer heights.
const (
	HeightSmall  = "small"
	HeightMedium = "medium"
	HeightLarge  = "large"
)

// Payload is the variant-specific data of a block. Payload values are treated
// as immutable: updates build a new value instead of mutating one in place.
type Payload interface {
	ComponentType() Type
}

// HeroData is the payload of a hero block.
type HeroData struct {
	Title               string `json:"title"`
	Subtitle            string `json:"subtitle"`
	PrimaryButtonText   string `json:"primaryButtonText"`
	PrimaryButtonLink   string `json:"primaryButtonLink"`
	SecondaryButtonText string `json:"secondaryButtonText,omitempty"`
	SecondaryButtonLink string `json:"secondaryButtonLink,omitempty"`
	BackgroundImage     string `json:"backgroundImage,omitempty"`
	Alignment           string `json:"alignment"`
}

// FeatureItem is one entry of a features block.
type FeatureItem struct {
	Icon        string `json:"icon"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// FeaturesData is the payload of a features block.
type FeaturesData struct {
	Title    string        `json:"title"`
	Subtitle string        `json:"subtitle,omitempty"`
	Features []FeatureItem `json:"features"`
	Columns  int           `json:"columns"`
}

// Testimonial is one quote of a testimonials block.
type Testimonial struct {
	Name    string `json:"name"`
	Role    string `json:"role"`
	Content string `json:"content"`
	Avatar  string `json:"avatar,omitempty"`
	Rating  int    `json:"rating"`
}

// TestimonialsData is the payload of a testimonials block.
type TestimonialsData struct {
	Title        string        `json:"title"`
	Subtitle     string        `json:"subtitle,omitempty"`
	Testimonials []Testimonial `json:"testimonials"`
}

// PricingPlan is one column of a pricing block.
type PricingPlan struct {
	Name        string   `json:"name"`
	Price       string   `json:"price"`
	Period      string   `json:"period"`
	Features    []string `json:"features"`
	Highlighted bool     `json:"highlighted"`
	ButtonText  string   `json:"buttonText"`
	ButtonLink  string   `json:"buttonLink"`
}

// PricingData is the payload of a pricing block.
type PricingData struct {
	Title    string        `json:"title"`
	Subtitle string        `json:"subtitle,omitempty"`
	Plans    []PricingPlan `json:"plans"`
}

// CTAData is the payload of a call-to-action block.
type CTAData struct {
	Title           string `json:"title"`
	Description     string `json:"description"`
	ButtonText      string `json:"buttonText"`
	ButtonLink      string `json:"buttonLink"`
	BackgroundColor string `json:"backgroundColor"`
}

// ContactData is the payload of a contact block.
type ContactData struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle,omitempty"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	Address  string `json:"address,omitempty"`
	ShowForm bool   `json:"showForm"`
}

// TextData is the payload of a text block. Content is Markdown.
type TextData struct {
	Content   string `json:"content"`
	Alignment string `json:"alignment"`
}

// ImageData is the payload of an image block.
type ImageData struct {
	URL       string `json:"url"`
	Alt       string `json:"alt"`
	Width     string `json:"width"`
	Alignment string `json:"alignment"`
}

// VideoData is the payload of a video block.
type VideoData struct {
	URL      string `json:"url"`
	Platform string `json:"platform"`
	Width    string `json:"width"`
}

// SpacerData is the payload of a spacer block.
type SpacerData struct {
	Height string `json:"height"`
}

func (HeroData) ComponentType() Type         { return TypeHero }
func (FeaturesData) ComponentType() Type     { return TypeFeatures }
func (TestimonialsData) ComponentType() Type { return TypeTestimonials }
func (PricingData) ComponentType() Type      { return TypePricing }
func (CTAData) ComponentType() Type          { return TypeCTA }
func (ContactData) ComponentType() Type      { return TypeContact }
func (TextData) ComponentType() Type         { return TypeText }
func (ImageData) ComponentType() Type        { return TypeImage }
func (VideoData) ComponentType() Type        { return TypeVideo }
func (SpacerData) ComponentType() Type       { return TypeSpacer }
