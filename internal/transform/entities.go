package transform

import "strings"

func required(name string, convert func(any) (any, error)) FieldSpec {
	return FieldSpec{Name: name, Policy: IncludeAlways, Convert: convert}
}

func optional(name string, convert func(any) (any, error)) FieldSpec {
	return FieldSpec{Name: name, Policy: IncludeIfPresent, Convert: convert}
}

func defaulted(name string, def func() any, convert func(any) (any, error)) FieldSpec {
	return FieldSpec{Name: name, Policy: IncludeAlways, Default: def, Convert: convert}
}

func nestedUser() FieldSpec {
	return FieldSpec{Name: "user", Policy: IncludeIfPresent, Nested: KindUser}
}

func timestamps() []FieldSpec {
	return []FieldSpec{
		defaulted("createdAt", defaultEpoch, Time),
		defaulted("updatedAt", defaultEpoch, Time),
	}
}

// FullName склеивает непустые части имени. Без обеих частей поле не выводится.
func FullName(out DTO) (any, bool) {
	var parts []string
	for _, key := range []string{"firstName", "lastName"} {
		if s, ok := out[key].(string); ok && strings.TrimSpace(s) != "" {
			parts = append(parts, s)
		}
	}
	if len(parts) == 0 {
		return nil, false
	}
	return strings.Join(parts, " "), true
}

// Status возвращает "active" или "inactive" по isActive.
func Status(out DTO) (any, bool) {
	if active, _ := out["isActive"].(bool); active {
		return "active", true
	}
	return "inactive", true
}

// CompanyInfo - сводка о работодателе.
func CompanyInfo(out DTO) (any, bool) {
	return map[string]any{
		"name":     out["name"],
		"industry": out["industry"],
		"size":     out["size"],
		"founded":  out["foundedIn"],
	}, true
}

// MfaStatus возвращает "ENABLED" или "DISABLED" по mfaEnabled.
func MfaStatus(out DTO) (any, bool) {
	if enabled, _ := out["mfaEnabled"].(bool); enabled {
		return "ENABLED", true
	}
	return "DISABLED", true
}

func userSpecs() (*Spec, *Spec) {
	internal := &Spec{Kind: KindUser, Mode: ModeInternal, Fields: append([]FieldSpec{
		required("id", String),
		optional("avatarUrl", String),
		required("email", String),
		optional("phone", String),
		optional("password", String),
		required("role", String),
		defaulted("isVerified", defaultFalse, Bool),
		defaulted("isActive", defaultFalse, Bool),
		defaulted("isLocked", defaultFalse, Bool),
	}, timestamps()...)}

	response := Response(internal,
		[]string{"id", "avatarUrl", "email", "phone", "role", "isVerified", "isActive", "isLocked", "createdAt", "updatedAt"},
		Computed{Name: "status", Get: Status})
	return internal, response
}

func adminSpecs() (*Spec, *Spec) {
	internal := &Spec{Kind: KindAdmin, Mode: ModeInternal, Fields: append([]FieldSpec{
		required("id", String),
		optional("userId", String),
		optional("firstName", String),
		optional("lastName", String),
		defaulted("permissions", defaultStrings, Strings),
		nestedUser(),
	}, timestamps()...)}

	response := Response(internal,
		[]string{"id", "firstName", "lastName", "permissions", "user", "createdAt", "updatedAt"},
		Computed{Name: "fullName", Get: FullName})
	return internal, response
}

func candidateSpecs() (*Spec, *Spec) {
	internal := &Spec{Kind: KindCandidate, Mode: ModeInternal, Fields: append([]FieldSpec{
		required("id", String),
		optional("userId", String),
		required("firstName", String),
		required("lastName", String),
		optional("title", String),
		defaulted("skills", defaultStrings, Strings),
		defaulted("isEmployed", defaultFalse, Bool),
		nestedUser(),
	}, timestamps()...)}

	response := Response(internal,
		[]string{"id", "firstName", "lastName", "title", "skills", "isEmployed", "user", "createdAt", "updatedAt"},
		Computed{Name: "fullName", Get: FullName})
	return internal, response
}

func employerSpecs() (*Spec, *Spec) {
	internal := &Spec{Kind: KindEmployer, Mode: ModeInternal, Fields: append([]FieldSpec{
		required("id", String),
		optional("userId", String),
		required("name", String),
		optional("industry", String),
		optional("websiteUrl", String),
		optional("location", String),
		optional("description", String),
		optional("size", Int),
		optional("foundedIn", Int),
		defaulted("isVerified", defaultFalse, Bool),
		nestedUser(),
	}, timestamps()...)}

	response := Response(internal,
		[]string{"id", "name", "industry", "websiteUrl", "location", "description", "size", "foundedIn", "isVerified", "user", "createdAt", "updatedAt"},
		Computed{Name: "companyInfo", Get: CompanyInfo})
	return internal, response
}

func authenticationSpecs() (*Spec, *Spec) {
	internal := &Spec{Kind: KindAuthentication, Mode: ModeInternal, Fields: []FieldSpec{
		required("id", String),
		defaulted("mfaEnabled", defaultFalse, Bool),
		optional("mfaSecret", String),
		defaulted("mfaRecoveryCodes", defaultStrings, Strings),
		optional("otpSecret", String),
		optional("otpExpiresAt", NullableTime),
		defaulted("otpAttemptCount", defaultZero, Int),
		required("userId", String),
	}}

	response := Response(internal,
		[]string{"id", "mfaEnabled", "otpAttemptCount", "userId"},
		Computed{Name: "mfaStatus", Get: MfaStatus})
	return internal, response
}

// DefaultSpecs возвращает описания всех сущностей.
func DefaultSpecs() []*Spec {
	var specs []*Spec
	for _, build := range []func() (*Spec, *Spec){userSpecs, adminSpecs, candidateSpecs, employerSpecs, authenticationSpecs} {
		internal, response := build()
		specs = append(specs, internal, response)
	}
	return specs
}
