package pipeline

import (
	"fmt"
	"strings"
)

// Step is one dependent generation call: a persona (role, goal, backstory)
// plus the task description handed to the model. Output of step N is fed to
// step N+1 as context.
type Step struct {
	Name           string
	Role           string
	Goal           string
	Backstory      string
	Description    string
	ExpectedOutput string
}

// Instruction renders the persona into a single system instruction.
func (s Step) Instruction() string {
	return fmt.Sprintf("You are a %s. %s\n\nYour goal: %s\n\nExpected output: %s",
		s.Role, s.Backstory, s.Goal, s.ExpectedOutput)
}

// Steps builds the three-step career pipeline for one submitted profile:
// profile analysis, career matching, roadmap creation.
func Steps(profile map[string]any) []Step {
	return []Step{
		{
			Name:      "profile_analyzer",
			Role:      "Profile Analyzer",
			Goal:      "Analyze user profile to understand skills, interests, and personality",
			Backstory: "You are an expert at analyzing user profiles to understand their core competencies, interests, and personality traits. You help identify key strengths and preferences that are crucial for career matching.",
			Description: fmt.Sprintf(`Analyze the following user profile and extract key insights:
Skills: %s
Interests: %s
Strengths: %s
Personality Traits: %s
Work Style: %s
Education: %s
Salary Expectations: %s
Tech Preference: %s
Learning Ability: %s
Past Projects: %s

Provide a detailed analysis of the user's profile.`,
				field(profile, "skills", "Not specified"),
				field(profile, "interests", "Not specified"),
				field(profile, "strengths", "Not specified"),
				field(profile, "personality_traits", "Not specified"),
				field(profile, "work_style", "Not specified"),
				field(profile, "education", "Not specified"),
				field(profile, "salary_expectations", "Not specified"),
				field(profile, "tech_preference", "Not specified"),
				field(profile, "learning_ability", "Not specified"),
				field(profile, "past_projects", "No past projects specified"),
			),
			ExpectedOutput: "A comprehensive analysis of the user's profile.",
		},
		{
			Name:      "career_matcher",
			Role:      "Career Matcher",
			Goal:      "Match user profile to suitable career paths",
			Backstory: "You are a career matching expert who takes analyzed user profiles and maps them to the most suitable career paths based on their skills, interests, and market demand.",
			Description: `Based on the profile analysis, recommend the top 5 most suitable career paths. For each career, provide:
1. Career title
2. Brief description
3. Why it's a good fit
4. Expected salary range
5. Job market outlook

Format the output as a JSON object with a 'careers' array.`,
			ExpectedOutput: "A JSON object containing top 5 career recommendations with details.",
		},
		{
			Name:      "roadmap_creator",
			Role:      "Career Roadmap Creator",
			Goal:      "Create detailed learning roadmaps for recommended careers",
			Backstory: "You are an expert in career development and education planning. You create actionable learning paths and skill development plans for various career options.",
			Description: `For each recommended career, create a detailed learning roadmap including:
1. Required skills to learn
2. Recommended courses/resources
3. Suggested projects
4. Timeline for skill acquisition
5. Certifications (if applicable)

Format the output as a JSON object with roadmaps for each career.`,
			ExpectedOutput: "A JSON object containing detailed learning roadmaps for each recommended career.",
		},
	}
}

func field(profile map[string]any, key, fallback string) string {
	v, ok := profile[key]
	if !ok || v == nil {
		return fallback
	}
	s := strings.TrimSpace(fmt.Sprintf("%v", v))
	if s == "" {
		return fallback
	}
	return s
}
