package service

import "careerbot/internal/domain"

// questionBank es el banco estático de preguntas por interés conocido.
// Intereses fuera del banco se generan vía LLM en SkillsService.
var questionBank = map[string]domain.QuestionSet{
	"technology": {
		TechnicalSkills: []domain.Question{
			{
				Question: "Describe your proficiency with JavaScript frameworks.",
				Suggestions: []string{
					"I build SPAs with React",
					"I’ve used Vue for small projects",
					"I’m new to frameworks",
				},
			},
			{
				Question: "How do you approach debugging complex code?",
				Suggestions: []string{
					"I use console logs + breakpoints",
					"I write unit tests to isolate bugs",
					"I ask a peer to pair-program",
				},
			},
			{
				Question: "Explain your familiarity with RESTful APIs.",
				Suggestions: []string{
					"I design and consume them in Node.js",
					"I’ve used Postman to test endpoints",
					"I haven’t worked with APIs yet",
				},
			},
		},
		HardSkills: []domain.Question{
			{
				Question: "Explain your knowledge of data structures & algorithms.",
				Suggestions: []string{
					"I’ve implemented linked lists and trees",
					"I know sorting/search algorithms",
					"I need more practice",
				},
			},
			{
				Question: "How do you write and run unit tests?",
				Suggestions: []string{
					"I use Jest for JS testing",
					"I write tests before features (TDD)",
					"I rarely write tests",
				},
			},
			{
				Question: "Describe your experience with Git version control.",
				Suggestions: []string{
					"I use feature branching daily",
					"I commit small changes often",
					"I’m new to Git",
				},
			},
		},
		SoftSkills: []domain.Question{
			{
				Question: "How do you communicate complex technical ideas?",
				Suggestions: []string{
					"I use diagrams and examples",
					"I explain step-by-step verbally",
					"I struggle with that",
				},
			},
			{
				Question: "Describe a time you collaborated on a team project.",
				Suggestions: []string{
					"I led a capstone project",
					"I contributed via code reviews",
					"I prefer working solo",
				},
			},
			{
				Question: "How do you handle stressful deadlines?",
				Suggestions: []string{
					"I break tasks into milestones",
					"I reprioritize and ask for help",
					"I work overtime if needed",
				},
			},
		},
	},

	"hospitality": {
		TechnicalSkills: []domain.Question{
			{
				Question: "How familiar are you with POS systems?",
				Suggestions: []string{
					"I’ve used Toast POS",
					"I’ve trained but not used live",
					"No experience",
				},
			},
			{
				Question: "Describe your experience with booking software.",
				Suggestions: []string{
					"I managed reservations in OpenTable",
					"I used manual booking logs",
					"Never used any",
				},
			},
			{
				Question: "Explain your understanding of inventory control.",
				Suggestions: []string{
					"I conduct weekly stocktakes",
					"I use real-time inventory tools",
					"No exposure",
				},
			},
		},
		HardSkills: []domain.Question{
			{
				Question: "How do you handle guest complaints?",
				Suggestions: []string{
					"Listen actively and apologize",
					"Offer immediate solutions",
					"Escalate to manager",
				},
			},
			{
				Question: "Describe your event-planning experience.",
				Suggestions: []string{
					"Planned hotel weddings",
					"Assisted with corporate banquets",
					"None",
				},
			},
			{
				Question: "How do you coordinate multiple vendors?",
				Suggestions: []string{
					"Maintain schedules and contacts",
					"Weekly check-in calls",
					"Never done this",
				},
			},
		},
		SoftSkills: []domain.Question{
			{
				Question: "How do you communicate with guests?",
				Suggestions: []string{
					"Warm and friendly tone",
					"Professional and concise",
					"I struggle under pressure",
				},
			},
			{
				Question: "Describe teamwork in a busy shift.",
				Suggestions: []string{
					"We rotate tasks dynamically",
					"We assist each other proactively",
					"Prefer slower pace",
				},
			},
			{
				Question: "How do you manage stress on a rush day?",
				Suggestions: []string{
					"Deep breaths and prioritize",
					"Focus on one task at a time",
					"It’s very challenging",
				},
			},
		},
	},
}
