package domain

// EnvironmentConfig selects the target interpreter. Venv wins over Python
// when both are set; with neither, the locator searches PATH.
type EnvironmentConfig struct {
	Python string
	Venv   string
}

type Environment struct {
	Executable string
	LibPath    string
}
