package crypto

import (
	"context"
	"encoding/base64"

	gcpkms "cloud.google.com/go/kms/apiv1"
	"cloud.google.com/go/kms/apiv1/kmspb"

	"github.com/GregMSThompson/coop-backend/internal/errs"
)

// kmsEncryptor protects credentials kept at rest, currently the initial
// password issued to a co-admin.
type kmsEncryptor struct {
	client  *gcpkms.KeyManagementClient
	keyName string
}

func NewKMS(client *gcpkms.KeyManagementClient, keyName string) *kmsEncryptor {
	return &kmsEncryptor{client: client, keyName: keyName}
}

// Encrypt returns base64 ciphertext.
func (k *kmsEncryptor) Encrypt(ctx context.Context, plaintext string) (string, error) {
	resp, err := k.client.Encrypt(ctx, &kmspb.EncryptRequest{
		Name:      k.keyName,
		Plaintext: []byte(plaintext),
	})
	if err != nil {
		return "", errs.NewEncryptionError("failed to encrypt value", err)
	}
	return base64.StdEncoding.EncodeToString(resp.Ciphertext), nil
}

func (k *kmsEncryptor) Decrypt(ctx context.Context, ciphertext string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", errs.NewEncryptionError("ciphertext is not valid base64", err)
	}
	resp, err := k.client.Decrypt(ctx, &kmspb.DecryptRequest{
		Name:       k.keyName,
		Ciphertext: raw,
	})
	if err != nil {
		return "", errs.NewEncryptionError("failed to decrypt value", err)
	}
	return string(resp.Plaintext), nil
}
