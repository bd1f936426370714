// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package assistant

import (
	"github.com/samber/lo"

	"github.com/jeranaias/campus-assistant/internal/model"
)

// =============================================================================
// CANNED TEXT
// =============================================================================

// Greeting seeds every conversation.
const Greeting = "Hello! I'm your Smart Campus Assistant. I can help you with dining hours, library information, course registration, campus events, and much more. How can I assist you today?"

const (
	DiningResponse = "The main dining hall is open from 7:00 AM to 10:00 PM Monday through Friday, and 8:00 AM to 9:00 PM on weekends. The student union food court has extended hours until 11:00 PM. Would you like information about specific dining locations or meal plans?"

	LibraryResponse = "The main library is open 24/7 during the semester with card access after 10 PM. Study rooms can be reserved online up to 2 weeks in advance. Group study areas are available on floors 2-4, and quiet study zones are on floors 5-6. Need help with specific services?"

	RegistrationResponse = "Course registration for the upcoming semester opens next Monday at 8:00 AM for seniors, with rolling access by class level through the week. You can access the registration system through the student portal. Need help with course planning or prerequisites?"

	ParkingResponse = "Student parking is available in lots A-F with a valid parking permit ($150/semester). Free campus shuttle runs every 15 minutes between main lots and academic buildings. Visitor parking is $5/day in designated areas. Would you like shuttle schedules or parking map information?"

	FinancialResponse = "The Financial Aid office is located in the Administration Building, room 150. Office hours are 8 AM - 5 PM, Monday-Friday. You can check your financial aid status online through the student portal. Tuition payment deadlines and payment plan options are available on the Bursar's website."

	FallbackResponse = "I'd be happy to help you with that! For the most accurate and up-to-date information, I recommend contacting the relevant campus department directly. You can also visit the student services office in the Administration Building or check the official campus website. Is there anything specific I can help you find?"
)

// Banner and page copy.
const (
	Title          = "Smart Campus Assistant"
	Tagline        = "Your AI-powered guide to campus life. Get instant answers about dining, academics, campus services, and everything you need to know."
	HeaderFootnote = "Ask me anything about campus • Available 24/7"
	StatsTitle     = "Campus at a Glance"
	FooterLine     = "Smart Campus Assistant • Available 24/7 for all your campus needs"
	EmergencyLine  = "For emergencies, please contact Campus Security: (555) 123-4567"
	Placeholder    = "Ask me anything about campus..."
	TypingLine     = "Assistant is typing..."
)

// =============================================================================
// QUICK ACTIONS
// =============================================================================

var quickActions = []model.QuickAction{
	{ID: "dining", Title: "Dining Hours", Description: "Check cafeteria and dining hall schedules", Icon: model.IconUtensils, Query: "What are the dining hall hours today?"},
	{ID: "library", Title: "Library Info", Description: "Hours, study rooms, and services", Icon: model.IconBookOpen, Query: "What are the library hours and how do I reserve a study room?"},
	{ID: "parking", Title: "Parking & Transport", Description: "Parking permits and shuttle schedules", Icon: model.IconCar, Query: "How do I get a parking permit and what are the shuttle schedules?"},
	{ID: "registration", Title: "Course Registration", Description: "Register for classes and check prerequisites", Icon: model.IconCalendar, Query: "How do I register for courses and when does registration open?"},
	{ID: "financial", Title: "Financial Aid", Description: "Tuition, financial aid, and payment plans", Icon: model.IconCreditCard, Query: "How do I check my financial aid status and payment options?"},
	{ID: "campus", Title: "Campus Map", Description: "Find buildings and campus locations", Icon: model.IconMapPin, Query: "How do I find buildings on campus and get directions?"},
	{ID: "events", Title: "Campus Events", Description: "Student activities and campus events", Icon: model.IconUsers, Query: "What events and activities are happening on campus this week?"},
	{ID: "hours", Title: "Office Hours", Description: "Administrative office schedules", Icon: model.IconClock, Query: "What are the office hours for student services and administration?"},
}

// QuickActions returns a copy of the quick action catalog in display order.
func QuickActions() []model.QuickAction {
	out := make([]model.QuickAction, len(quickActions))
	copy(out, quickActions)
	return out
}

// QuickActionByID looks up a catalog entry.
func QuickActionByID(id string) (model.QuickAction, bool) {
	return lo.Find(quickActions, func(a model.QuickAction) bool {
		return a.ID == id
	})
}

// QuickActionAt returns the entry at a 1-based position, as used by the
// digit shortcuts and the /action REPL command.
func QuickActionAt(n int) (model.QuickAction, bool) {
	if n < 1 || n > len(quickActions) {
		return model.QuickAction{}, false
	}
	return quickActions[n-1], true
}

// QuickActionIDs lists catalog IDs in display order.
func QuickActionIDs() []string {
	return lo.Map(quickActions, func(a model.QuickAction, _ int) string {
		return a.ID
	})
}

// =============================================================================
// CAMPUS STATS
// =============================================================================

var stats = []model.Stat{
	{Label: "Total Students", Value: "25,847"},
	{Label: "Faculty Members", Value: "2,156"},
	{Label: "Academic Programs", Value: "180+"},
	{Label: "Campus Size", Value: "450 acres"},
}

// Stats returns a copy of the campus stats.
func Stats() []model.Stat {
	out := make([]model.Stat, len(stats))
	copy(out, stats)
	return out
}
