package dialogue

// IntentTag 对话意图标签
type IntentTag string

const (
	IntentGreeting              IntentTag = "greeting"
	IntentGoodbye               IntentTag = "goodbye"
	IntentAdmissionRequirements IntentTag = "admission_requirements"
	IntentApplicationDeadline   IntentTag = "application_deadline"
	IntentTuitionFees           IntentTag = "tuition_fees"
	IntentProgramsOffered       IntentTag = "programs_offered"
	IntentFinancialAid          IntentTag = "financial_aid"
	IntentContactInfo           IntentTag = "contact_info"
	IntentCampusVisit           IntentTag = "campus_visit"
	IntentHousing               IntentTag = "housing"
	IntentUnknown               IntentTag = "unknown"
)

// ParseIntentTag 解析意图标签，无模板的标签回落为unknown
func ParseIntentTag(tag string) IntentTag {
	intent := IntentTag(tag)
	if _, ok := responseTemplates[intent]; ok {
		return intent
	}
	return IntentUnknown
}

// responseTemplates 各意图的开场模板
var responseTemplates = map[IntentTag][]string{
	IntentGreeting: {
		"Hello! I'm here to help you with your admission inquiries. What would you like to know?",
		"Hi there! Welcome to our admissions assistant. How can I assist you today?",
		"Greetings! I'm ready to help you with any questions about our university. What's on your mind?",
	},
	IntentGoodbye: {
		"Thank you for using our admissions assistant! If you have more questions, feel free to ask anytime.",
		"Goodbye! Don't hesitate to reach out if you need more information about our programs.",
		"It was great helping you today! Good luck with your application process.",
	},
	IntentAdmissionRequirements: {
		"Here are the admission requirements for our university:",
		"To apply for admission, you'll need the following:",
		"Our admission requirements include:",
	},
	IntentApplicationDeadline: {
		"Important deadline information:",
		"Here are the application deadlines you need to know:",
		"Please note these important dates:",
	},
	IntentTuitionFees: {
		"Here's information about tuition and fees:",
		"The current fee structure is as follows:",
		"Cost information for our programs:",
	},
	IntentProgramsOffered: {
		"We offer a wide range of programs:",
		"Here are the academic programs available:",
		"Our educational offerings include:",
	},
	IntentFinancialAid: {
		"Financial assistance options include:",
		"Here's information about financial aid:",
		"We offer several ways to help fund your education:",
	},
	IntentContactInfo: {
		"You can reach our admissions office through:",
		"Here's how to contact us:",
		"Our contact information:",
	},
	IntentCampusVisit: {
		"We'd love to have you visit our campus!",
		"Campus visit information:",
		"Here's how you can explore our campus:",
	},
	IntentHousing: {
		"Our housing options include:",
		"Here's information about student accommodation:",
		"Residential life at our university:",
	},
	IntentUnknown: {
		"I understand you're asking about admissions. Let me help you find the right information.",
		"That's a great question! Let me see what I can find for you.",
		"I want to make sure I give you accurate information. Could you please provide more details?",
	},
}

// followUps 各意图的追问引导
var followUps = map[IntentTag]string{
	IntentAdmissionRequirements: "Would you like to know about application deadlines or required documents?",
	IntentApplicationDeadline:   "Do you need information about required documents or the application process?",
	IntentTuitionFees:           "Would you like to learn about financial aid options or payment plans?",
	IntentProgramsOffered:       "Are you interested in learning about admission requirements for any specific program?",
	IntentFinancialAid:          "Would you like information about scholarship deadlines or application procedures?",
	IntentContactInfo:           "Is there anything specific you'd like me to help you with before contacting our office?",
	IntentCampusVisit:           "Would you like information about academic programs or student life as well?",
	IntentHousing:               "Do you have questions about meal plans or campus facilities?",
}

const defaultFollowUp = "Is there anything else I can help you with regarding admissions?"

// fallbackResponses 兜底回复，生成流程异常时随机返回其一
var fallbackResponses = []string{
	"I understand you're asking about admissions. Let me connect you with our admissions office.",
	"For specific queries beyond my knowledge, please contact our admissions team at admissions@university.edu",
	"I'd be happy to help! Could you please rephrase your question?",
}
