package llmtest

// Markers identify each prompt of the pipeline. They are phrases from the prompt templates.
const (
	MarkIngestJob    = "Read the job posting below"
	MarkIngestResume = "Read the resume below"
	MarkBasicInfo    = "Adapt the candidate's basic information"
	MarkExperience   = "Adapt the candidate's work experience"
	MarkEducation    = "Adapt the candidate's education"
	MarkProjects     = "Adapt the candidate's projects"
	MarkPublications = "Adapt the candidate's publications"
	MarkSkills       = "Adapt the candidate's skills"
	MarkCoverLetter  = "Write a cover letter"
	AcmeJobText      = "Senior Backend Engineer at Acme. We build developer tools. You will build APIs in Python and run them on Kubernetes."
	JaneResumeText   = "Jane Doe, jane@x.com\nSoftware Engineer at Initech 2019-Present\nSkills: Python, Go, Kubernetes, Terraform"
	AcmeJobJSON      = `{"title":"Senior Backend Engineer","purpose":"Build and run backend services.","company_name":"Acme","location":"Remote","keywords":["Python","Kubernetes","python"],"responsibilities":["Build APIs"],"required_qualifications":["5 years of Python"],"desired_qualifications":["Kubernetes in production"],"company_description":"Acme builds developer tools."}`
	JaneResumeJSON   = `{"basic_info":{"name":"Jane Doe","email":"jane@x.com","links":["GitHub: https://github.com/janedoe"]},"experience":[{"title":"Software Engineer","company":"Initech","start":"2019","end":"Present","descriptions":["Built billing services in Go","Maintained Kubernetes clusters"]}],"education":[{"degree":"BSc","area":"Computer Science","school":"State University","start":"2015","end":"2019","location":"Springfield"}],"projects":[{"title":"kubectl-tidy","description":"A kubectl plugin.","technologies":["Go"]}],"skills":[{"group":"Languages","skills":["Python","Go"]},{"group":"Infrastructure","skills":["Kubernetes","Terraform"]}],"awards":["Employee of the Year 2022"],"certifications":["CKA"],"languages":["English","Spanish"],"other_info":"Open source contributor"}`
	BasicInfoJSON    = `{"basic_info":{"name":"Jane Doe","email":"jane@x.com","one_liner":"Backend engineer for Python and Kubernetes services","summary":"Backend engineer with five years of experience.","links":["GitHub: https://github.com/janedoe"]}}`
	ExperienceJSON   = `{"experience":[{"title":"Software Engineer","company":"Initech","start":"2019","end":"Present","descriptions":["Built Python and Go billing APIs","Ran production Kubernetes clusters"]}]}`
	EducationJSON    = `{"education":[{"degree":"BSc","area":"Computer Science","school":"State University","start":"2015","end":"2019","location":"Springfield"}]}`
	ProjectsJSON     = `{"projects":[{"title":"kubectl-tidy","description":"A Kubernetes CLI plugin.","technologies":["Go"]}]}`
	PublicationsJSON = `{"publications":[]}`
	SkillsJSON       = `{"skills":[{"group":"Relevant","skills":["Python","Kubernetes","Rust"]},{"group":"Other","skills":["Go"]}]}`
	CoverLetterJSON  = `{"company_name":"Acme","team_name":"","position_title":"Senior Backend Engineer","salutation":"Dear Hiring Manager,","body":"I build Python services on Kubernetes.","closing":"Sincerely, Jane Doe"}`
)

// Acme returns a fake that answers every prompt of a full run for the Acme job
// and Jane Doe's resume. The skills answer includes "Rust", which the source does not list.
func Acme() *Fake {
	f := &Fake{}
	return f.
		On(MarkIngestJob, AcmeJobJSON).
		On(MarkIngestResume, JaneResumeJSON).
		On(MarkBasicInfo, BasicInfoJSON).
		On(MarkExperience, ExperienceJSON).
		On(MarkEducation, EducationJSON).
		On(MarkProjects, ProjectsJSON).
		On(MarkPublications, PublicationsJSON).
		On(MarkSkills, SkillsJSON).
		On(MarkCoverLetter, CoverLetterJSON)
}
