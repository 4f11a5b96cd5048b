package mid

import (
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/jhoicas/mid-portal-api/internal/domain/entity"
	"golang.org/x/crypto/sha3"
)

// SignatureHash huella SHA3-256 de los datos firmados: el documento de la solicitud,
// el momento de aceptación y la huella del cliente. Cualquier cambio posterior en
// los datos produce un hash distinto.
func SignatureHash(data entity.SubmissionData, sig entity.DigitalSignature) (string, error) {
	payload := struct {
		Data              entity.SubmissionData `json:"data"`
		AcceptedAt        string                `json:"acceptedAt"`
		ClientFingerprint string                `json:"clientFingerprint"`
	}{Data: data, ClientFingerprint: sig.ClientFingerprint}
	if sig.AcceptedAt != nil {
		payload.AcceptedAt = sig.AcceptedAt.UTC().Format(time.RFC3339Nano)
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	sum := sha3.Sum256(b)
	return hex.EncodeToString(sum[:]), nil
}
