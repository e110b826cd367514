// Package questionbank 提供按 (岗位, 级别) 固定的面试题序列。
// 纯查表，服务端接口和客户端会话共用。
package questionbank

type bucket struct {
	role  string
	level string
}

var banks = map[bucket][]string{
	{"frontend", "junior"}: {
		"Tell me about yourself and your experience with frontend development.",
		"What's the difference between HTML, CSS, and JavaScript?",
		"How do you ensure your website works across different browsers?",
		"Describe a challenging frontend project you've worked on.",
		"How do you optimize website performance?",
	},
	{"frontend", "mid"}: {
		"Explain the concept of responsive design and how you implement it.",
		"What are your preferred frontend frameworks and why?",
		"How do you manage state in a React application?",
		"Describe your experience with version control and Git.",
		"How do you approach debugging frontend issues?",
	},
	{"frontend", "senior"}: {
		"How do you architect scalable frontend applications?",
		"Explain your approach to mentoring junior developers.",
		"How do you stay updated with the latest frontend technologies?",
		"Describe a time you had to make a difficult technical decision.",
		"How do you balance technical debt with feature development?",
	},
	{"backend", "junior"}: {
		"Tell me about your experience with backend development.",
		"What's the difference between SQL and NoSQL databases?",
		"How do you handle API authentication and security?",
		"Describe your experience with server-side programming languages.",
		"How do you test your backend code?",
	},
	{"backend", "mid"}: {
		"Explain your approach to designing RESTful APIs.",
		"How do you handle database optimization and scaling?",
		"Describe your experience with microservices architecture.",
		"How do you implement caching strategies?",
		"What's your approach to error handling and logging?",
	},
	{"backend", "senior"}: {
		"How do you design systems for high availability and scalability?",
		"Explain your experience with cloud infrastructure and DevOps.",
		"How do you approach system security and compliance?",
		"Describe a time you optimized system performance significantly.",
		"How do you balance consistency and availability in distributed systems?",
	},
	{"fullstack", "junior"}: {
		"Tell me about your full-stack development experience.",
		"How do you decide between frontend and backend solutions?",
		"Describe a full-stack project you've built from scratch.",
		"How do you handle data flow between frontend and backend?",
		"What's your approach to learning new technologies?",
	},
	{"fullstack", "mid"}: {
		"How do you architect full-stack applications?",
		"Explain your experience with database design and optimization.",
		"How do you handle user authentication across the stack?",
		"Describe your deployment and CI/CD processes.",
		"How do you balance frontend user experience with backend performance?",
	},
	{"fullstack", "senior"}: {
		"How do you lead full-stack development teams?",
		"Explain your approach to technical decision-making across the stack.",
		"How do you ensure code quality and maintainability?",
		"Describe your experience with system architecture and scaling.",
		"How do you stay current with both frontend and backend trends?",
	},
}

// defaultQuestions 未识别的岗位/级别组合走通用题目
var defaultQuestions = []string{
	"Tell me about yourself and your experience.",
	"What's your greatest strength and weakness?",
	"Describe a challenging project you've worked on.",
	"How do you handle tight deadlines?",
	"Where do you see yourself in 5 years?",
}

// QuestionsFor 返回该组合的固定五题；组合不存在时返回默认五题。
// 返回的是副本，调用方可自由修改。
func QuestionsFor(role, level string) []string {
	qs, ok := banks[bucket{role, level}]
	if !ok {
		qs = defaultQuestions
	}
	out := make([]string, len(qs))
	copy(out, qs)
	return out
}

// Known 判断组合是否存在于题库
func Known(role, level string) bool {
	_, ok := banks[bucket{role, level}]
	return ok
}

func Roles() []string {
	return []string{"frontend", "backend", "fullstack"}
}

func Levels() []string {
	return []string{"junior", "mid", "senior"}
}
