// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package component

// Schema helpers. Schemas are plain JSON Schema documents built from maps.

func object(required []string, props map[string]any) map[string]any {
	req := make([]any, len(required))
	for i, r := range required {
		req[i] = r
	}
	return map[string]any{
		"type":                 "object",
		"properties":           props,
		"required":             req,
		"additionalProperties": false,
	}
}

func str() map[string]any {
	return map[string]any{"type": "string"}
}

func boolean() map[string]any {
	return map[string]any{"type": "boolean"}
}

func enum(values ...any) map[string]any {
	return map[string]any{"enum": values}
}

func list(items map[string]any) map[string]any {
	return map[string]any{"type": "array", "items": items}
}

func alignment() map[string]any { return enum(AlignLeft, AlignCenter, AlignRight) }

func width() map[string]any { return enum(WidthSmall, WidthMedium, WidthLarge, WidthFull) }

// builtin returns the definitions of the ten shipped variants.
func builtin() []Definition {
	return []Definition{
		define(TypeHero, "Hero", "Large headline with call-to-action buttons",
			object([]string{"title", "subtitle", "primaryButtonText", "primaryButtonLink", "alignment"}, map[string]any{
				"title":               str(),
				"subtitle":            str(),
				"primaryButtonText":   str(),
				"primaryButtonLink":   str(),
				"secondaryButtonText": str(),
				"secondaryButtonLink": str(),
				"backgroundImage":     str(),
				"alignment":           alignment(),
			}),
			HeroData{
				Title:             "Welcome to Our Business",
				Subtitle:          "We provide the best services for your needs",
				PrimaryButtonText: "Get Started",
				PrimaryButtonLink: "#contact",
				Alignment:         AlignCenter,
			}),

		define(TypeFeatures, "Features", "Grid of features with icons",
			object([]string{"title", "features", "columns"}, map[string]any{
				"title":    str(),
				"subtitle": str(),
				"features": list(object([]string{"icon", "title", "description"}, map[string]any{
					"icon":        str(),
					"title":       str(),
					"description": str(),
				})),
				"columns": map[string]any{"type": "integer", "enum": []any{2, 3, 4}},
			}),
			FeaturesData{
				Title:    "Our Features",
				Subtitle: "Everything you need to succeed",
				Features: []FeatureItem{
					{Icon: "zap", Title: "Fast", Description: "Lightning fast performance"},
					{Icon: "shield", Title: "Secure", Description: "Your data is safe with us"},
					{Icon: "heart", Title: "Reliable", Description: "Always there when you need us"},
				},
				Columns: 3,
			}),

		define(TypeTestimonials, "Testimonials", "Customer quotes with ratings",
			object([]string{"title", "testimonials"}, map[string]any{
				"title":    str(),
				"subtitle": str(),
				"testimonials": list(object([]string{"name", "role", "content", "rating"}, map[string]any{
					"name":    str(),
					"role":    str(),
					"content": str(),
					"avatar":  str(),
					"rating":  map[string]any{"type": "integer", "minimum": 1, "maximum": 5},
				})),
			}),
			TestimonialsData{
				Title: "What Our Customers Say",
				Testimonials: []Testimonial{
					{Name: "Priya Sharma", Role: "Owner, Bloom Cafe", Content: "Setting up our page took minutes.", Rating: 5},
					{Name: "Rahul Verma", Role: "Freelancer", Content: "Clients find me much more easily now.", Rating: 5},
				},
			}),

		define(TypePricing, "Pricing", "Pricing plans side by side",
			object([]string{"title", "plans"}, map[string]any{
				"title":    str(),
				"subtitle": str(),
				"plans": list(object([]string{"name", "price", "period", "features", "highlighted", "buttonText", "buttonLink"}, map[string]any{
					"name":        str(),
					"price":       str(),
					"period":      str(),
					"features":    list(str()),
					"highlighted": boolean(),
					"buttonText":  str(),
					"buttonLink":  str(),
				})),
			}),
			PricingData{
				Title: "Simple Pricing",
				Plans: []PricingPlan{
					{Name: "Basic", Price: "₹0", Period: "month", Features: []string{"1 page", "Basic blocks"}, ButtonText: "Start free", ButtonLink: "#"},
					{Name: "Pro", Price: "₹50", Period: "month", Features: []string{"10 pages", "Remove branding", "Ratings"}, Highlighted: true, ButtonText: "Go Pro", ButtonLink: "#"},
				},
			}),

		define(TypeCTA, "Call to Action", "Banner with a single button",
			object([]string{"title", "description", "buttonText", "buttonLink", "backgroundColor"}, map[string]any{
				"title":           str(),
				"description":     str(),
				"buttonText":      str(),
				"buttonLink":      str(),
				"backgroundColor": str(),
			}),
			CTAData{
				Title:           "Ready to get started?",
				Description:     "Join thousands of happy customers today.",
				ButtonText:      "Contact Us",
				ButtonLink:      "#contact",
				BackgroundColor: "#2563eb",
			}),

		define(TypeContact, "Contact", "Contact details and an optional form",
			object([]string{"title", "email", "showForm"}, map[string]any{
				"title":    str(),
				"subtitle": str(),
				"email":    str(),
				"phone":    str(),
				"address":  str(),
				"showForm": boolean(),
			}),
			ContactData{
				Title:    "Get in Touch",
				Subtitle: "We'd love to hear from you",
				Email:    "hello@example.com",
				ShowForm: true,
			}),

		define(TypeText, "Text", "Paragraphs of formatted text",
			object([]string{"content", "alignment"}, map[string]any{
				"content":   str(),
				"alignment": alignment(),
			}),
			TextData{
				Content:   "Add your text here.",
				Alignment: AlignLeft,
			}),

		define(TypeImage, "Image", "A single image",
			object([]string{"url", "alt", "width", "alignment"}, map[string]any{
				"url":       str(),
				"alt":       str(),
				"width":     width(),
				"alignment": alignment(),
			}),
			ImageData{
				URL:       "",
				Alt:       "Image",
				Width:     WidthLarge,
				Alignment: AlignCenter,
			}),

		define(TypeVideo, "Video", "Embedded YouTube, Vimeo or hosted video",
			object([]string{"url", "platform", "width"}, map[string]any{
				"url":      str(),
				"platform": enum(PlatformYouTube, PlatformVimeo, PlatformCustom),
				"width":    width(),
			}),
			VideoData{
				URL:      "",
				Platform: PlatformYouTube,
				Width:    WidthLarge,
			}),

		define(TypeSpacer, "Spacer", "Vertical whitespace",
			object([]string{"height"}, map[string]any{
				"height": enum(HeightSmall, HeightMedium, HeightLarge),
			}),
			SpacerData{Height: HeightMedium}),
	}
}
