package skills

import (
	"sort"
	"strings"

	"github.com/fairyhunter13/resume-relevance/internal/domain"
)

// Entry is one canonical skill with its dictionary category and aliases.
type Entry struct {
	Name     string
	Category string
	Aliases  []string
}

// Dictionary is the fixed skill table plus a reverse lookup keyed on
// lowercase aliases. Built once at startup; read-only afterwards, safe for
// concurrent use.
type Dictionary struct {
	entries []Entry
	lookup  map[string]Entry
	terms   []string
}

// NewDictionary builds the built-in skill dictionary.
func NewDictionary() *Dictionary {
	d := &Dictionary{lookup: make(map[string]Entry)}
	for _, e := range builtinSkills {
		d.entries = append(d.entries, e)
		d.lookup[strings.ToLower(e.Name)] = e
		for _, a := range e.Aliases {
			d.lookup[strings.ToLower(a)] = e
		}
	}
	d.terms = make([]string, 0, len(d.lookup))
	for t := range d.lookup {
		d.terms = append(d.terms, t)
	}
	sort.Strings(d.terms)
	return d
}

// Lookup resolves a raw term (canonical name or alias, any case) to its
// dictionary entry.
func (d *Dictionary) Lookup(term string) (Entry, bool) {
	e, ok := d.lookup[strings.ToLower(strings.TrimSpace(term))]
	return e, ok
}

// Entries returns all canonical entries in dictionary order.
func (d *Dictionary) Entries() []Entry { return d.entries }

// Terms returns every lookup term (lowercased canonical names and aliases)
// in sorted order, for deterministic scans.
func (d *Dictionary) Terms() []string { return d.terms }

// MatchAll returns the canonical entries whose name or any alias occurs as
// a substring of text (case-insensitive), deduplicated, in dictionary order.
func (d *Dictionary) MatchAll(text string) []Entry {
	lower := strings.ToLower(text)
	seen := make(map[string]bool)
	var out []Entry
	for _, e := range d.entries {
		if seen[e.Name] {
			continue
		}
		if strings.Contains(lower, strings.ToLower(e.Name)) {
			seen[e.Name] = true
			out = append(out, e)
			continue
		}
		for _, a := range e.Aliases {
			if strings.Contains(lower, a) {
				seen[e.Name] = true
				out = append(out, e)
				break
			}
		}
	}
	return out
}

// builtinSkills is the versioned dictionary: canonical display name,
// category, lowercase aliases.
var builtinSkills = []Entry{
	// Programming languages
	{"Python", domain.CategoryProgrammingLanguages, []string{"python", "py", "python3"}},
	{"JavaScript", domain.CategoryProgrammingLanguages, []string{"javascript", "js", "ecmascript", "es6", "es2015"}},
	{"Java", domain.CategoryProgrammingLanguages, []string{"java", "jvm"}},
	{"TypeScript", domain.CategoryProgrammingLanguages, []string{"typescript", "ts"}},
	{"C++", domain.CategoryProgrammingLanguages, []string{"c++", "cpp", "c plus plus"}},
	{"C#", domain.CategoryProgrammingLanguages, []string{"c#", "csharp", "c sharp"}},
	{"PHP", domain.CategoryProgrammingLanguages, []string{"php", "php7", "php8"}},
	{"Ruby", domain.CategoryProgrammingLanguages, []string{"ruby", "rb"}},
	{"Go", domain.CategoryProgrammingLanguages, []string{"go", "golang"}},
	{"Rust", domain.CategoryProgrammingLanguages, []string{"rust", "rust-lang"}},
	{"Kotlin", domain.CategoryProgrammingLanguages, []string{"kotlin", "kt"}},
	{"Swift", domain.CategoryProgrammingLanguages, []string{"swift", "swift5"}},
	{"Scala", domain.CategoryProgrammingLanguages, []string{"scala"}},
	{"R", domain.CategoryProgrammingLanguages, []string{"r programming", "r language"}},
	{"MATLAB", domain.CategoryProgrammingLanguages, []string{"matlab"}},
	{"Perl", domain.CategoryProgrammingLanguages, []string{"perl"}},
	{"Bash", domain.CategoryProgrammingLanguages, []string{"bash", "shell scripting", "bash scripting"}},
	{"PowerShell", domain.CategoryProgrammingLanguages, []string{"powershell", "ps1"}},

	// Web technologies
	{"React", domain.CategoryWebTechnologies, []string{"react", "reactjs", "react.js"}},
	{"Angular", domain.CategoryWebTechnologies, []string{"angular", "angularjs", "angular2+"}},
	{"Vue", domain.CategoryWebTechnologies, []string{"vue", "vue.js", "vuejs"}},
	{"HTML", domain.CategoryWebTechnologies, []string{"html", "html5"}},
	{"CSS", domain.CategoryWebTechnologies, []string{"css", "css3", "cascading style sheets"}},
	{"Sass", domain.CategoryWebTechnologies, []string{"sass", "scss"}},
	{"Less", domain.CategoryWebTechnologies, []string{"less css"}},
	{"Bootstrap", domain.CategoryWebTechnologies, []string{"bootstrap", "bootstrap4", "bootstrap5"}},
	{"Tailwind", domain.CategoryWebTechnologies, []string{"tailwind", "tailwindcss"}},
	{"jQuery", domain.CategoryWebTechnologies, []string{"jquery", "jquery ui"}},
	{"Node.js", domain.CategoryWebTechnologies, []string{"node.js", "nodejs", "node js"}},
	{"Express", domain.CategoryWebTechnologies, []string{"express", "express.js", "expressjs"}},
	{"Django", domain.CategoryWebTechnologies, []string{"django", "django rest framework"}},
	{"Flask", domain.CategoryWebTechnologies, []string{"flask", "flask-restful"}},
	{"Spring", domain.CategoryWebTechnologies, []string{"spring", "spring boot", "spring framework"}},
	{"Laravel", domain.CategoryWebTechnologies, []string{"laravel", "laravel framework"}},
	{"Rails", domain.CategoryWebTechnologies, []string{"ruby on rails", "rails", "ror"}},

	// Databases
	{"MySQL", domain.CategoryDatabases, []string{"mysql", "my sql"}},
	{"PostgreSQL", domain.CategoryDatabases, []string{"postgresql", "postgres", "psql"}},
	{"MongoDB", domain.CategoryDatabases, []string{"mongodb", "mongo"}},
	{"Redis", domain.CategoryDatabases, []string{"redis"}},
	{"Elasticsearch", domain.CategoryDatabases, []string{"elasticsearch", "elastic search", "elk stack"}},
	{"Oracle", domain.CategoryDatabases, []string{"oracle database", "oracle db"}},
	{"SQLite", domain.CategoryDatabases, []string{"sqlite", "sqlite3"}},
	{"Cassandra", domain.CategoryDatabases, []string{"cassandra", "apache cassandra"}},
	{"DynamoDB", domain.CategoryDatabases, []string{"dynamodb", "dynamo db"}},
	{"Neo4j", domain.CategoryDatabases, []string{"neo4j", "graph database"}},
	{"InfluxDB", domain.CategoryDatabases, []string{"influxdb", "time series database"}},

	// Cloud platforms
	{"AWS", domain.CategoryCloudPlatforms, []string{"aws", "amazon web services", "ec2", "s3", "lambda", "rds"}},
	{"Azure", domain.CategoryCloudPlatforms, []string{"azure", "microsoft azure"}},
	{"GCP", domain.CategoryCloudPlatforms, []string{"gcp", "google cloud platform", "google cloud"}},
	{"Kubernetes", domain.CategoryCloudPlatforms, []string{"kubernetes", "k8s"}},
	{"Docker", domain.CategoryCloudPlatforms, []string{"docker", "containerization"}},
	{"Terraform", domain.CategoryCloudPlatforms, []string{"terraform", "infrastructure as code"}},
	{"Ansible", domain.CategoryCloudPlatforms, []string{"ansible", "configuration management"}},
	{"Jenkins", domain.CategoryCloudPlatforms, []string{"jenkins", "ci/cd"}},
	{"GitLab", domain.CategoryCloudPlatforms, []string{"gitlab", "gitlab ci"}},
	{"CircleCI", domain.CategoryCloudPlatforms, []string{"circleci", "circle ci"}},

	// Data science
	{"Pandas", domain.CategoryDataScience, []string{"pandas"}},
	{"NumPy", domain.CategoryDataScience, []string{"numpy"}},
	{"scikit-learn", domain.CategoryDataScience, []string{"scikit-learn", "sklearn", "sci-kit learn"}},
	{"TensorFlow", domain.CategoryDataScience, []string{"tensorflow", "tf"}},
	{"PyTorch", domain.CategoryDataScience, []string{"pytorch", "torch"}},
	{"Keras", domain.CategoryDataScience, []string{"keras"}},
	{"Matplotlib", domain.CategoryDataScience, []string{"matplotlib", "pyplot"}},
	{"Seaborn", domain.CategoryDataScience, []string{"seaborn"}},
	{"Plotly", domain.CategoryDataScience, []string{"plotly", "plotly dash"}},
	{"Jupyter", domain.CategoryDataScience, []string{"jupyter", "jupyter notebook", "ipython"}},
	{"Apache Spark", domain.CategoryDataScience, []string{"spark", "apache spark", "pyspark"}},
	{"Hadoop", domain.CategoryDataScience, []string{"hadoop", "hdfs"}},
	{"Tableau", domain.CategoryDataScience, []string{"tableau"}},
	{"Power BI", domain.CategoryDataScience, []string{"power bi", "powerbi"}},
	{"R Shiny", domain.CategoryDataScience, []string{"shiny", "r shiny"}},

	// Mobile development
	{"iOS", domain.CategoryMobileDevelopment, []string{"ios development", "ios", "iphone development"}},
	{"Android", domain.CategoryMobileDevelopment, []string{"android development", "android"}},
	{"React Native", domain.CategoryMobileDevelopment, []string{"react native", "react-native"}},
	{"Flutter", domain.CategoryMobileDevelopment, []string{"flutter", "dart"}},
	{"Xamarin", domain.CategoryMobileDevelopment, []string{"xamarin"}},
	{"Cordova", domain.CategoryMobileDevelopment, []string{"cordova", "phonegap"}},
	{"Ionic", domain.CategoryMobileDevelopment, []string{"ionic framework", "ionic"}},

	// DevOps tools
	{"Git", domain.CategoryDevOpsTools, []string{"git", "version control", "github"}},
	{"SVN", domain.CategoryDevOpsTools, []string{"svn", "subversion"}},
	{"Maven", domain.CategoryDevOpsTools, []string{"maven", "apache maven"}},
	{"Gradle", domain.CategoryDevOpsTools, []string{"gradle"}},
	{"Webpack", domain.CategoryDevOpsTools, []string{"webpack", "module bundler"}},
	{"npm", domain.CategoryDevOpsTools, []string{"npm", "node package manager"}},
	{"Yarn", domain.CategoryDevOpsTools, []string{"yarn package manager", "yarn"}},
	{"pip", domain.CategoryDevOpsTools, []string{"pip", "python package installer"}},

	// Soft skills
	{"Leadership", domain.CategorySoftSkills, []string{"leadership", "team leadership", "leading teams"}},
	{"Communication", domain.CategorySoftSkills, []string{"communication", "public speaking", "presentation"}},
	{"Problem Solving", domain.CategorySoftSkills, []string{"problem solving", "analytical thinking", "troubleshooting"}},
	{"Project Management", domain.CategorySoftSkills, []string{"project management", "agile", "scrum", "kanban"}},
	{"Teamwork", domain.CategorySoftSkills, []string{"teamwork", "collaboration", "cross-functional teams"}},
	{"Adaptability", domain.CategorySoftSkills, []string{"adaptability", "flexibility", "learning agility"}},
	{"Time Management", domain.CategorySoftSkills, []string{"time management", "organization", "prioritization"}},
	{"Creativity", domain.CategorySoftSkills, []string{"creativity", "innovation", "creative thinking"}},
	{"Critical Thinking", domain.CategorySoftSkills, []string{"critical thinking", "analysis", "evaluation"}},
	{"Mentoring", domain.CategorySoftSkills, []string{"mentoring", "coaching", "training others"}},
}

// Bucket maps a dictionary category to its profile bucket.
func Bucket(category string) string {
	switch category {
	case domain.CategorySoftSkills:
		return "soft_skills"
	case domain.CategoryCloudPlatforms, domain.CategoryDevOpsTools:
		return "tools_platforms"
	case domain.CategoryDataScience, domain.CategoryMobileDevelopment:
		return "domain_expertise"
	default:
		return "technical_skills"
	}
}
