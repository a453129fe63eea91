package core

import (
	"time"

	"careloop-backend-go/internal/models"
)

func datePtr(year int, month time.Month, day int) *time.Time {
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &d
}

// seedDocuments is the fixed resource-library seed, ordered by LastUpdated
// descending so that index order and recency order agree for unfiltered
// listings. Documents without a date sort last.
func seedDocuments() []models.SearchDocument {
	return []models.SearchDocument{
		{
			ID:          "guide-care-plan-basics",
			Kind:        models.KindGuide,
			Title:       "Building a Care Plan That Sticks",
			Description: "Step-by-step guide to assembling a weekly care plan with the whole team.",
			Category:    "Care Planning",
			URL:         "/resources/guides/care-plan-basics",
			LastUpdated: datePtr(2026, time.August, 14),
		},
		{
			ID:          "article-evv-requirements",
			Kind:        models.KindArticle,
			Title:       "EVV Requirements by State",
			Description: "What electronic visit verification means for your agency and how each state enforces it.",
			Category:    "Compliance",
			URL:         "/resources/articles/evv-requirements",
			LastUpdated: datePtr(2026, time.July, 30),
		},
		{
			ID:          "template-shift-handoff",
			Kind:        models.KindTemplate,
			Title:       "Shift Handoff Checklist",
			Description: "Printable checklist for caregiver-to-caregiver handoffs at shift change.",
			Category:    "Caregiver Operations",
			URL:         "/resources/templates/shift-handoff",
			LastUpdated: datePtr(2026, time.June, 22),
		},
		{
			ID:          "guide-medication-tracking",
			Kind:        models.KindGuide,
			Title:       "Medication Tracking for Family Caregivers",
			Description: "Keeping a reliable medication log across multiple caregivers.",
			Category:    "Health Records",
			URL:         "/resources/guides/medication-tracking",
			LastUpdated: datePtr(2026, time.May, 9),
		},
		{
			ID:          "article-visit-verification-audits",
			Kind:        models.KindArticle,
			Title:       "Surviving Your First Payer Audit",
			Description: "How visit verification records are sampled and what auditors look for.",
			Category:    "EVV & Compliance",
			URL:         "/resources/articles/payer-audits",
			LastUpdated: datePtr(2026, time.April, 18),
		},
		{
			ID:          "template-coverage-calendar",
			Kind:        models.KindTemplate,
			Title:       "Monthly Coverage Calendar",
			Description: "Blank calendar template for spotting coverage gaps before they happen.",
			Category:    "Care Planning",
			URL:         "/resources/templates/coverage-calendar",
			LastUpdated: datePtr(2026, time.March, 3),
		},
		{
			ID:          "story-sandwich-generation",
			Kind:        models.KindStory,
			Title:       "Coordinating Care From Two Time Zones",
			Description: "How one family kept a parent's care team in sync across the country.",
			Category:    "Family Stories",
			URL:         "/resources/stories/two-time-zones",
			LastUpdated: datePtr(2026, time.January, 27),
		},
		{
			ID:          "guide-onboarding-caregivers",
			Kind:        models.KindGuide,
			Title:       "Onboarding a New Caregiver",
			Description: "First-week checklist for bringing a new hire onto an existing care team.",
			Category:    "Caregiver Operations",
			URL:         "/resources/guides/onboarding-caregivers",
			LastUpdated: datePtr(2025, time.November, 12),
		},
		{
			ID:          "story-respite-care",
			Kind:        models.KindStory,
			Title:       "Finding Respite Without Guilt",
			Description: "A primary caregiver on learning to hand off and actually rest.",
			Category:    "Caregiver Wellbeing",
			URL:         "/resources/stories/respite-care",
			LastUpdated: datePtr(2025, time.September, 5),
		},
		{
			ID:          "template-emergency-contacts",
			Kind:        models.KindTemplate,
			Title:       "Emergency Contact Sheet",
			Description: "One-page sheet of contacts, conditions, and medications for emergencies.",
			Category:    "Health Records",
			URL:         "/resources/templates/emergency-contacts",
			// Never revised since import; exercises the missing-date path.
		},
	}
}
