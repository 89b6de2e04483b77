package adcfile

import (
	"encoding/json"
	"fmt"

	"github.com/cloudmesa/gcpadc/pkg/errors"
)

// Kind is the credential type a document declares through its "type" field.
type Kind string

const (
	// KindAuthorizedUser is a gcloud end-user refresh token credential.
	KindAuthorizedUser Kind = "authorized_user"

	// KindServiceAccount is a service account key file.
	KindServiceAccount Kind = "service_account"

	// KindUnsupported covers documents whose type field is absent or not
	// recognized. The raw discriminator stays available through
	// CredentialType for error reporting.
	KindUnsupported Kind = ""
)

// typeField is the discriminator key in ADC documents.
const typeField = "type"

// Document is a parsed credential file: a flat view of the JSON object's
// string-valued fields plus the source it came from. Non-string values are
// dropped during parsing; every field the supported credential types
// consume is a string.
type Document struct {
	fields map[string]string
	source Source
}

// Classify parses payload bytes into a Document. Anything that is not a
// JSON object yields ErrCredentialMalformed naming the source, so a broken
// file is locatable by path.
func Classify(p *Payload) (*Document, error) {
	var raw map[string]interface{}
	if err := json.Unmarshal(p.Data, &raw); err != nil {
		return nil, errors.Wrap(
			errors.ErrCredentialMalformed,
			err,
			fmt.Sprintf("cannot parse %s", p.Source.Description()),
		)
	}
	// JSON null unmarshals into a nil map without error.
	if raw == nil {
		return nil, errors.New(
			errors.ErrCredentialMalformed,
			fmt.Sprintf("cannot parse %s", p.Source.Description()),
		).WithDetail("document is not a JSON object")
	}

	fields := make(map[string]string, len(raw))
	for k, v := range raw {
		if s, ok := v.(string); ok {
			fields[k] = s
		}
	}

	return &Document{fields: fields, source: p.Source}, nil
}

// Field returns the named string field and whether it is present.
func (d *Document) Field(name string) (string, bool) {
	v, ok := d.fields[name]
	return v, ok
}

// CredentialType returns the raw type discriminator, or "" when absent.
func (d *Document) CredentialType() string {
	return d.fields[typeField]
}

// Kind maps the type discriminator onto the supported credential kinds.
func (d *Document) Kind() Kind {
	switch d.CredentialType() {
	case string(KindAuthorizedUser):
		return KindAuthorizedUser
	case string(KindServiceAccount):
		return KindServiceAccount
	default:
		return KindUnsupported
	}
}

// Source reports where the document was loaded from.
func (d *Document) Source() Source {
	return d.source
}
