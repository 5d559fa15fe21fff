package config

// EnvVarMapping associates one LOTAR_* environment variable with the
// dotted config path it overrides (spec §6's documented variables).
type EnvVarMapping struct {
	Env  string
	Path string
}

// EnvVarMappings lists the env vars that override a Config field directly.
// LOTAR_TASKS_DIR, LOTAR_LOG_LEVEL and LOTAR_TEST_SILENT have no Config
// path here: LOTAR_TASKS_DIR is read by internal/cli's bootstrap before a
// Loader is constructed, and the other two are not read anywhere.
var EnvVarMappings = []EnvVarMapping{
	{Env: "LOTAR_DEFAULT_REPORTER", Path: "default.reporter"},
	{Env: "LOTAR_WEB_UI_PATH", Path: "server.web_ui_path"},
	{Env: "LOTAR_WEB_UI_EMBEDDED", Path: "server.web_ui_embedded"},
}
