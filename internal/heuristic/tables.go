package heuristic

// Domain is one category of the fixed taxonomy with the keywords that vote for it.
type Domain struct {
	Label    string
	Keywords []string
}

// Language maps a canonical language name to the words that reveal it.
type Language struct {
	Name     string
	Keywords []string
}

// Tables is the static keyword configuration of the extractor. It is copied
// and compiled once by New; mutating a Tables value afterwards has no effect
// on an existing Extractor.
type Tables struct {
	Skills            []string
	CoreSkills        []string
	SoftSkills        []string
	Domains           []Domain
	Cities            []string
	EducationKeywords []string
	Languages         []Language
	SectionHeaders    []string
	SeniorKeywords    []string
	JuniorKeywords    []string
}

// DomainLabels lists the taxonomy labels of t in order.
func (t Tables) DomainLabels() []string {
	labels := make([]string, 0, len(t.Domains))
	for _, d := range t.Domains {
		labels = append(labels, d.Label)
	}
	return labels
}

// DefaultTables returns the built-in vocabulary. Each call returns fresh slices.
func DefaultTables() Tables {
	return Tables{
		Skills: []string{
			"JavaScript", "TypeScript", "React", "React Native", "Angular", "Vue.js", "Node.js",
			"Express", "HTML", "CSS", "PHP", "Laravel", "Symfony", "Python", "Django", "Flask",
			"Java", "Spring", "Kotlin", "Swift", "Flutter", "C++", "C#", "Golang", "Rust", "Ruby",
			"SQL", "PostgreSQL", "MySQL", "MongoDB", "Redis", "GraphQL", "REST API",
			"Docker", "Kubernetes", "Terraform", "Ansible", "AWS", "Azure", "GCP", "Linux", "Git",
			"Jenkins", "CI/CD", "Machine Learning", "Deep Learning", "TensorFlow", "PyTorch",
			"Pandas", "Power BI", "Tableau", "Figma", "Photoshop", "UX", "Agile", "Scrum", "Jira",
		},
		CoreSkills: []string{
			"JavaScript", "TypeScript", "React", "Angular", "Node.js", "PHP", "Python", "Java",
			"C#", "SQL", "Docker", "Kubernetes", "AWS", "Azure", "Linux", "Git", "Figma", "Agile",
		},
		SoftSkills: []string{"communication", "teamwork", "problem solving"},
		Domains: []Domain{
			{Label: "Web Development", Keywords: []string{
				"react", "angular", "vue", "javascript", "typescript", "html", "css", "node", "php",
				"frontend", "front-end", "backend", "back-end", "web", "fullstack", "full-stack",
				"laravel", "symfony",
			}},
			{Label: "Data Science", Keywords: []string{
				"data", "data scientist", "data analyst", "pandas", "numpy", "statistics",
				"statistiques", "analytics", "power bi", "tableau", "big data", "spark",
			}},
			{Label: "DevOps / Cloud", Keywords: []string{
				"devops", "docker", "kubernetes", "aws", "azure", "gcp", "terraform", "ansible",
				"ci/cd", "jenkins", "cloud", "linux", "sre",
			}},
			{Label: "Design / UX", Keywords: []string{
				"design", "designer", "figma", "ux", "ui", "photoshop", "illustrator", "sketch",
				"maquette", "wireframe",
			}},
			{Label: "Project Management", Keywords: []string{
				"chef de projet", "project manager", "gestion de projet", "product owner", "scrum",
				"agile", "pmp", "jira", "planning", "prince2",
			}},
			{Label: "Cybersecurity", Keywords: []string{
				"cybersecurity", "cybersécurité", "security", "sécurité", "pentest", "soc", "siem",
				"iso 27001", "firewall", "forensic",
			}},
			{Label: "Mobile Development", Keywords: []string{
				"mobile", "android", "ios", "flutter", "swift", "kotlin", "react native", "xamarin",
			}},
			{Label: "Artificial Intelligence", Keywords: []string{
				"machine learning", "deep learning", "intelligence artificielle", "tensorflow",
				"pytorch", "nlp", "llm", "computer vision", "ia", "ai",
			}},
		},
		Cities: []string{
			"Paris", "Lyon", "Marseille", "Toulouse", "Nice", "Nantes", "Strasbourg", "Montpellier",
			"Bordeaux", "Lille", "Rennes", "Reims", "Grenoble", "Dijon", "Angers", "Brest", "Tours",
			"Limoges", "Clermont-Ferrand", "Rouen", "Bruxelles", "Genève", "Montréal", "Casablanca",
			"Rabat", "Tunis", "Alger", "Dakar", "Abidjan", "London", "Londres",
		},
		EducationKeywords: []string{
			"diplôme", "diploma", "degree", "master", "licence", "bachelor", "bac", "bts", "dut",
			"université", "university", "école", "school", "formation", "training", "ingénieur",
			"doctorat", "phd", "mba",
		},
		Languages: []Language{
			{Name: "Français", Keywords: []string{"français", "francais", "french"}},
			{Name: "Anglais", Keywords: []string{"anglais", "english"}},
			{Name: "Espagnol", Keywords: []string{"espagnol", "spanish"}},
			{Name: "Allemand", Keywords: []string{"allemand", "german"}},
			{Name: "Italien", Keywords: []string{"italien", "italian"}},
			{Name: "Arabe", Keywords: []string{"arabe", "arabic"}},
			{Name: "Portugais", Keywords: []string{"portugais", "portuguese"}},
			{Name: "Chinois", Keywords: []string{"chinois", "chinese", "mandarin"}},
		},
		SectionHeaders: []string{
			"curriculum", "vitae", "cv", "resume", "résumé", "profil", "profile", "experience",
			"expérience", "expériences", "experiences", "professionnelle", "professionnelles",
			"education", "formation", "formations", "compétences", "competences", "skills",
			"langues", "languages", "contact", "coordonnées", "objectif", "summary", "projets",
			"projects", "certifications", "centres", "intérêt", "loisirs", "hobbies", "references",
			"références",
		},
		SeniorKeywords: []string{"senior", "sénior", "lead", "principal", "architecte", "architect", "manager", "head of"},
		JuniorKeywords: []string{"junior", "intern", "internship", "stagiaire", "stage", "alternant", "alternance", "débutant"},
	}
}
