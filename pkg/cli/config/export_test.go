package config

// NewGeminiForTest creates a Gemini config for testing purposes
func NewGeminiForTest(projectID, location string) *Gemini {
	return &Gemini{
		projectID: projectID,
		location:  location,
	}
}

// NewLoggerForTest creates a Logger config for testing purposes
func NewLoggerForTest(level, format, output string) *Logger {
	return &Logger{
		level:  level,
		format: format,
		output: output,
	}
}

// NewKnowledgeForTest creates a Knowledge config for testing purposes
func NewKnowledgeForTest(path string) *Knowledge {
	return &Knowledge{path: path}
}

// NewBotForTest creates a Bot config for testing purposes
func NewBotForTest(configPath string) *Bot {
	return &Bot{configPath: configPath}
}

// NewWahaForTest creates a Waha config for testing purposes
func NewWahaForTest(baseURL, session, apiKey, webhookKey string) *Waha {
	return &Waha{
		baseURL:    baseURL,
		session:    session,
		apiKey:     apiKey,
		webhookKey: webhookKey,
	}
}
