package dynaprop

import (
	eng "github.com/reoring/dynaprop/internal/engine"
)

// DetectDuplicateKeys walks a Source to completion and reports duplicate
// object keys. The walk is driver-agnostic, so the same detector serves
// JSON and YAML inputs. maxIssues < 0 means unlimited; 0 disables
// collection; > 0 caps it with a trailing "truncated" marker.
func DetectDuplicateKeys(src Source, strict Strictness, maxIssues int) (Issues, error) {
	si, err := eng.DetectDuplicateKeys(EngineTokenSource(src), toEngineDup(strict.OnDuplicateKey), maxIssues)
	if err != nil {
		return nil, err
	}
	return fromEngineIssues(si), nil
}

// DetectJSONDuplicateKeysBytes detects duplicate keys in a JSON byte
// slice using the configured driver.
func DetectJSONDuplicateKeysBytes(data []byte, strict Strictness, maxIssues int) (Issues, error) {
	return DetectDuplicateKeys(JSONBytes(data), strict, maxIssues)
}

func toEngineDup(s Severity) eng.DuplicateStrictness {
	switch s {
	case Error:
		return eng.DupError
	case Warn:
		return eng.DupWarn
	default:
		return eng.DupIgnore
	}
}

func fromEngineIssues(si []eng.SimpleIssue) Issues {
	var iss Issues
	for _, s := range si {
		iss = AppendIssues(iss, Issue{Code: s.Code, Path: s.Path, Message: s.Message, Offset: -1})
	}
	return iss
}
