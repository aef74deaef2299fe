package validate

// suggestedSkills is offered by the skills step as one-click additions.
var suggestedSkills = []string{
	"JavaScript", "Python", "Java", "React", "Node.js", "HTML/CSS",
	"TypeScript", "Git", "MongoDB", "PostgreSQL", "Docker", "AWS",
	"Express.js", "Next.js", "Vue.js", "Angular", "Spring Boot",
	"Django", "Flask", "Redis", "GraphQL", "REST APIs", "Linux",
	"Kubernetes", "Jenkins", "C++", "C#", "Go", "Rust",
}

// SuggestedSkills returns the suggestions not already in chosen, in display order.
func SuggestedSkills(chosen []string) []string {
	have := make(map[string]struct{}, len(chosen))
	for _, s := range chosen {
		have[s] = struct{}{}
	}
	out := make([]string, 0, len(suggestedSkills))
	for _, s := range suggestedSkills {
		if _, ok := have[s]; !ok {
			out = append(out, s)
		}
	}
	return out
}
