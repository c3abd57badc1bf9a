package memory

import "webinar-portal/internal/domain"

// DefaultQuestionPools returns the built-in question bank keyed by webinar topic.
func DefaultQuestionPools() map[string][]domain.Question {
	return map[string][]domain.Question{
		domain.DefaultWebinarTopic: aiLiteracyQuestions(),
	}
}

func aiLiteracyQuestions() []domain.Question {
	return []domain.Question{
		{
			ID:   1,
			Text: "How should teachers present the benefits of AI to students?",
			Options: []string{
				"AI will solve all problems in society",
				"AI can help in healthcare, education, and farming but has limitations",
				"AI has no real benefits for society",
				"Only urban-schools can benefit from AI",
			},
			Answer: "AI can help in healthcare, education, and farming but has limitations",
		},
		{
			ID:   2,
			Text: "What should teachers tell students about using AI for schoolwork?",
			Options: []string{
				"Copy everything AI provides without checking",
				"Never use AI for any learning purpose",
				"Use AI as a helper but verify the information",
				"Only use AI for entertainment",
			},
			Answer: "Use AI as a helper but verify the information",
		},
		{
			ID:   3,
			Text: "As a teacher, how should you explain AI risks to your students?",
			Options: []string{
				"AI is completely safe and has no risks",
				"AI can make mistakes and may affect some jobs",
				"AI will destroy the world",
				"Students should be afraid of using AI",
			},
			Answer: "AI can make mistakes and may affect some jobs",
		},
		{
			ID:   4,
			Text: "When teaching students about writing prompts for AI, what should teachers emphasize?",
			Options: []string{
				"Use complex and difficult language",
				"Write very long instructions",
				"Be clear, specific, and include context",
				"Ask many questions at the same time",
			},
			Answer: "Be clear, specific, and include context",
		},
		{
			ID:   5,
			Text: "How can teachers use AI tools for their own professional development?",
			Options: []string{
				"Replace all their teaching methods with AI",
				"Use AI to help create lesson plans and organize work",
				"Avoid AI completely in professional work",
				"Only use AI for personal entertainment",
			},
			Answer: "Use AI to help create lesson plans and organize work",
		},
		{
			ID:   6,
			Text: "Which of these is an effective prompt for AI to help with lesson planning?",
			Options: []string{
				`"Make me a lesson plan"`,
				`"Create a 45-minute Hindi lesson plan for Class 7 students with activities and examples"`,
				`"Give me something for teaching"`,
				`"Help me teach students everything about grammar"`,
			},
			Answer: `"Create a 45-minute Hindi lesson plan for Class 7 students with activities and examples"`,
		},
		{
			ID:   7,
			Text: "How can teachers use AI tools to make their teaching more efficient?",
			Options: []string{
				"Let AI teach all classes instead of the teacher",
				"Use AI to generate lesson plans and create practice questions for students",
				"Replace all textbooks with AI-generated content only",
				"Use AI to give marks to students without checking their work",
			},
			Answer: "Use AI to generate lesson plans and create practice questions for students",
		},
		{
			ID:   8,
			Text: "Which administrative task can teachers effectively use AI for?",
			Options: []string{
				"Deciding student grades without reviewing their work",
				"Drafting parent communication letters and creating school event notices",
				"Making all school policy decisions",
				"Hiring other teachers",
			},
			Answer: "Drafting parent communication letters and creating school event notices",
		},
		{
			ID:   9,
			Text: "What is the most important role of a teacher when students use AI in the classroom?",
			Options: []string{
				"Stop students from using any AI tools",
				"Let students use AI without any guidance or rules",
				"Guide students to use AI responsibly and check AI-generated information",
				"Use AI to do all the teaching work",
			},
			Answer: "Guide students to use AI responsibly and check AI-generated information",
		},
		{
			ID:   10,
			Text: "When writing prompts for AI to help with school work, teachers should:",
			Options: []string{
				"Use very complicated and technical language",
				"Ask for everything in one single long prompt",
				"Be specific, clear, and include context about what they need",
				"Copy prompts from the internet without changing them",
			},
			Answer: "Be specific, clear, and include context about what they need",
		},
	}
}
