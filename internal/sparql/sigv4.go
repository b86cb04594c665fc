package sparql

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
)

// NeptuneService is the SigV4 service name of Neptune's data plane.
const NeptuneService = "neptune-db"

// SigV4 signs requests with AWS Signature Version 4.
type SigV4 struct {
	Credentials aws.Credentials
	Region      string
	Service     string
	Now         func() time.Time

	signer *v4.Signer
}

// NewSigV4 creates a Neptune signer from static credentials.
func NewSigV4(accessKey, secretKey, sessionToken, region string) *SigV4 {
	return &SigV4{
		Credentials: aws.Credentials{
			AccessKeyID:     accessKey,
			SecretAccessKey: secretKey,
			SessionToken:    sessionToken,
			Source:          "ontomig",
		},
		Region:  region,
		Service: NeptuneService,
		Now:     time.Now,
		signer:  v4.NewSigner(),
	}
}

// Sign implements Signer.
func (s *SigV4) Sign(ctx context.Context, req *http.Request, body []byte) error {
	sum := sha256.Sum256(body)
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	signer := s.signer
	if signer == nil {
		signer = v4.NewSigner()
	}
	return signer.SignHTTP(ctx, s.Credentials, req, hex.EncodeToString(sum[:]), s.Service, s.Region, now().UTC())
}
