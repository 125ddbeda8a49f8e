// file: internal/repositories/seed.go
package repositories

import (
	"time"

	"linkedout/internal/models"
)

// SeedPassword is the password of every seeded account
const SeedPassword = "password123"

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func stamp(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

func earned(id, on string) models.UserBadge {
	d := date(on)
	return models.UserBadge{ID: id, Earned: true, EarnedDate: &d}
}

// SeedUsers returns the demo members. Every account shares passwordHash.
func SeedUsers(passwordHash string) []*models.User {
	created := date("2024-01-01")
	return []*models.User{
		{
			ID: "user_1", Name: "Jean Glandeur", Email: "test@linkedout.com", PasswordHash: passwordHash,
			Title:             "Expert in advanced procrastination",
			UnemploymentStart: date("2023-01-15"),
			Skills: []models.Skill{
				{Name: "Netflix Expert", Endorsements: 47},
				{Name: "Master of the infinite scroll", Endorsements: 32},
				{Name: "Champion de sieste", Endorsements: 28},
				{Name: "Professional procrastination", Endorsements: 41},
				{Name: "Évitement d'entretiens", Endorsements: 19},
			},
			Connections: []string{"user_2", "user_3", "user_4"},
			Badges: []models.UserBadge{
				earned("unemployed_100", "2023-04-25"),
				earned("netflix_master", "2023-02-10"),
				earned("no_interview", "2023-03-01"),
			},
			Bio: "Passionate about the art of doing nothing with style. Recognised specialist in free-time optimisation and domestic comfort maximisation.",
			Failures: []string{
				`Turned down by a fast-food chain for being "overqualified"`,
				"Fell asleep during a Zoom interview",
				`Mixed up "motivation" and "procrastination" in a cover letter`,
			},
			CreatedAt: created,
		},
		{
			ID: "user_2", Name: "Marie Flemmeuse", Email: "marie@linkedout.com", PasswordHash: passwordHash,
			Title:             "Ambassador of lacking motivation",
			UnemploymentStart: date("2022-08-20"),
			Skills: []models.Skill{
				{Name: "Queen of TV series", Endorsements: 52},
				{Name: "Home delivery expert", Endorsements: 38},
				{Name: "Social media mastery", Endorsements: 45},
				{Name: "Pyjama optimisation", Endorsements: 29},
			},
			Connections: []string{"user_1", "user_3", "user_5"},
			Badges: []models.UserBadge{
				earned("unemployed_365", "2023-08-20"),
				earned("couch_expert", "2022-12-01"),
				earned("delivery_master", "2023-01-15"),
			},
			Bio: "Freelance consultant in free-time optimisation. Expert in the digital transformation of couches into offices.",
			Failures: []string{
				"Showed up late to an interview... that was the previous week",
				"Resigned by email on the first day",
				"Wrote a CV using only emojis",
			},
			CreatedAt: created,
		},
		{
			ID: "user_3", Name: "Paul Branleur", Email: "paul@linkedout.com", PasswordHash: passwordHash,
			Title:             "Managing director of my bedroom",
			UnemploymentStart: date("2023-05-10"),
			Skills: []models.Skill{
				{Name: "Gaming professionnel", Endorsements: 67},
				{Name: "Évitement de responsabilités", Endorsements: 34},
				{Name: `Specialist in "I didn't see the time go by"`, Endorsements: 23},
				{Name: "Master of creative excuses", Endorsements: 41},
			},
			Connections: []string{"user_1", "user_2", "user_4", "user_5"},
			Badges: []models.UserBadge{
				earned("gamer_elite", "2023-06-01"),
				earned("excuse_master", "2023-07-15"),
			},
			Bio: "CEO of my own personal development company (aka staying in bed). Innovating in nothing-as-a-service.",
			Failures: []string{
				"Forgot I had a job for 3 weeks",
				`Called my boss "mum" on a video call`,
				"Sold my work laptop... before resigning",
			},
			CreatedAt: created,
		},
		{
			ID: "user_4", Name: "Sophie Cossarde", Email: "sophie@linkedout.com", PasswordHash: passwordHash,
			Title:             "Influencer in strategic laziness",
			UnemploymentStart: date("2022-11-30"),
			Skills: []models.Skill{
				{Name: "Content creation sur canapé", Endorsements: 29},
				{Name: "Instagram filter mastery", Endorsements: 44},
				{Name: "Late brunch expert", Endorsements: 31},
				{Name: "Bed yoga", Endorsements: 26},
			},
			Connections: []string{"user_1", "user_3", "user_5"},
			Badges: []models.UserBadge{
				earned("social_media_legend", "2023-02-14"),
				earned("brunch_expert", "2023-04-01"),
			},
			Bio: `Lifestyle coach specialised in living without constraints. Founder of the "Productivity? Never heard of it!" method.`,
			Failures: []string{
				`Application rejected for "apparent lack of enthusiasm"`,
				"Wrote a business plan for a company that does nothing",
				"Organised a motivation conference... then did not attend",
			},
			CreatedAt: created,
		},
		{
			ID: "user_5", Name: "Thomas Glandu", Email: "thomas@linkedout.com", PasswordHash: passwordHash,
			Title:             "Free-time optimisation consultant",
			UnemploymentStart: date("2023-03-01"),
			Skills: []models.Skill{
				{Name: "Philosophy of the permanent weekend", Endorsements: 35},
				{Name: "Master of extended coffee breaks", Endorsements: 27},
				{Name: "Expert en reports d'échéances", Endorsements: 39},
				{Name: `Specialist in "I'll do it tomorrow"`, Endorsements: 42},
			},
			Connections: []string{"user_2", "user_3", "user_4"},
			Badges: []models.UserBadge{
				earned("procrastination_god", "2023-05-20"),
				earned("coffee_break_champion", "2023-04-10"),
			},
			Bio: `Modern philosopher specialised in the in-depth study of "later". PhD in Avoidance Sciences.`,
			Failures: []string{
				"Missed an interview because I forgot which company it was",
				"Resigned by accident by sending the wrong email",
				"Wrote a 47-page CV... with no relevant information",
			},
			CreatedAt: created,
		},
	}
}

// SeedPosts returns the demo feed, newest first
func SeedPosts() []*models.Post {
	return []*models.Post{
		{ID: "post_1", UserID: "user_1", Timestamp: stamp("2024-01-25T10:30:00Z"), Likes: 23, Comments: 8,
			LikedBy: []string{"user_2", "user_3", "user_5"},
			Content: "Day 412 without a job! New personal record 🏆 I'm starting to master the art of watching Netflix guilt-free. Next step: binge-watching consultant!"},
		{ID: "post_2", UserID: "user_2", Timestamp: stamp("2024-01-24T15:45:00Z"), Likes: 34, Comments: 12,
			LikedBy: []string{"user_1", "user_3", "user_4", "user_5"},
			Content: "My parents: \"What do you do all day?\"\nMe: \"I'm working on personal projects\"\n*Watches 8h of TikTok*\n\nTechnically true, right? 🤷‍♀️"},
		{ID: "post_3", UserID: "user_3", Timestamp: stamp("2024-01-24T09:15:00Z"), Likes: 19, Comments: 6,
			LikedBy: []string{"user_1", "user_2", "user_4"},
			Content: "Job search update: I finally updated my CV!\n\nBy \"updated\" I mean I changed the year from 2022 to 2024. Progress is progress! 💪"},
		{ID: "post_4", UserID: "user_4", Timestamp: stamp("2024-01-23T16:20:00Z"), Likes: 28, Comments: 15,
			LikedBy: []string{"user_2", "user_3", "user_5"},
			Content: "Turns out getting up after 2pm avoids every recruiter call! Life hack level: expert 😎\n\n#UnemploymentLife #Optimization #Genius"},
		{ID: "post_5", UserID: "user_5", Timestamp: stamp("2024-01-23T11:00:00Z"), Likes: 41, Comments: 20,
			LikedBy: []string{"user_1", "user_2", "user_3", "user_4"},
			Content: "Philosophy of the day: why look for a job when you can look for the meaning of life?\n\nSpoiler: I found it, it's in the fridge 🍕"},
		{ID: "post_6", UserID: "user_1", Timestamp: stamp("2024-01-22T20:30:00Z"), Likes: 16, Comments: 9,
			LikedBy: []string{"user_2", "user_5"},
			Content: "Mum: \"How was yesterday's interview?\"\nMe: \"What interview?\"\nMum: \"The one you had planned\"\nMe: \"Oh yes... I forgot\"\n\nClassic me! 😅"},
		{ID: "post_7", UserID: "user_2", Timestamp: stamp("2024-01-22T13:45:00Z"), Likes: 25, Comments: 7,
			LikedBy: []string{"user_1", "user_3", "user_4"},
			Content: "New skill unlocked: ordering 3 different meals for delivery to \"compare quality\" 🍔🍕🍜\n\nIt's culinary research, thank you."},
		{ID: "post_8", UserID: "user_3", Timestamp: stamp("2024-01-21T14:20:00Z"), Likes: 22, Comments: 11,
			LikedBy: []string{"user_1", "user_4", "user_5"},
			Content: "Applied to 0 jobs today but beat my solitaire record! Priorities ✨\n\nWho said gaming skills weren't transferable?"},
	}
}

// SeedJobs returns the parody job board
func SeedJobs() []*models.Job {
	return []*models.Job{
		{
			ID: "job_1", Title: "Professional Couch Tester", Company: "Flatpack Furniture (not really)",
			Location: "Home", Salary: "€0/h + maximum comfort", Type: "Permanent",
			Description: "We are looking for a comfort expert to test our couches for at least 8h a day. Netflix experience required.",
			Requirements: []string{
				"5+ years of experience lying down",
				"Mastery of multiple remote controls",
				"Ability to stay still for hours",
				"Training in TV series criticism",
			},
			Tags:   []string{"Comfort", "Remote", "Passion", "Innovation"},
			Posted: stamp("2024-01-20T10:00:00Z"), Applications: 127,
		},
		{
			ID: "job_2", Title: "Ambassador of Lacking Motivation", Company: "Imaginary Job Centre",
			Location: "Everywhere and nowhere", Salary: "Negotiable (downwards)", Type: "Contract",
			Description: "Officially represent everyone who can't be bothered. Be the perfect example of what not to do.",
			Requirements: []string{
				"Expertise in procrastination",
				"Ability to come up with creative excuses",
				"Mastery of the art of postponing",
				"Allergic to early mornings",
			},
			Tags:   []string{"Representation", "Creativity", "Flexible", "Innovation"},
			Posted: stamp("2024-01-19T15:30:00Z"), Applications: 89,
		},
		{
			ID: "job_3", Title: "Nap Optimisation Consultant", Company: "Sleep & Co",
			Location: "Bed", Salary: "Paid in dreams", Type: "Freelance",
			Description: "Develop advanced strategies to maximise nap quality and duration. Innovation in the field of sleep.",
			Requirements: []string{
				"PhD in Sleep Sciences (self-awarded)",
				"10+ years of napping experience",
				"Ability to sleep anywhere",
				"Pillow expertise",
			},
			Tags:   []string{"Wellbeing", "Innovation", "Research", "Expertise"},
			Posted: stamp("2024-01-18T09:45:00Z"), Applications: 203,
		},
		{
			ID: "job_4", Title: "Chief Procrastination Officer", Company: "Startup of the Future (maybe)",
			Location: "Remote (very remote)", Salary: "We'll see later", Type: "Permanent",
			Description: "Lead the company's procrastination operations. Push back every deadline with style.",
			Requirements: []string{
				"MBA in Procrastination",
				"Leadership in avoidance",
				`Expertise in "I'll do it tomorrow"`,
				"Very long-term strategic vision",
			},
			Tags:   []string{"Leadership", "Strategy", "Innovation", "Management"},
			Posted: stamp("2024-01-17T14:20:00Z"), Applications: 156,
		},
		{
			ID: "job_5", Title: "Creative Excuse Developer", Company: "Excuse.js",
			Location: "Imagination Land", Salary: "Pure creativity", Type: "Internship",
			Description: "Create innovative excuses for every situation. Build the avoidance API.",
			Requirements: []string{
				"Overflowing creativity",
				"Mastery of the benevolent lie",
				"Storytelling experience",
				"Knowledge of the great classics",
			},
			Tags:   []string{"Creativity", "Innovation", "Storytelling", "API"},
			Posted: stamp("2024-01-16T11:15:00Z"), Applications: 78,
		},
	}
}
