package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/form3tech-oss/jwt-go"
	"github.com/google/uuid"
)

// ErrReceiptsDisabled is returned when no signing secret is configured.
var ErrReceiptsDisabled = errors.New("fight receipts disabled")

// ReceiptService signs fight results so an outer run layer can trust them.
type ReceiptService struct {
	secret string
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// Receipt is the verified content of a fight receipt.
type Receipt struct {
	FightID string
	UserID  string
	Enemy   string
	Winner  int
	Turns   int
}

func NewReceiptService(secret, issuer string, ttl time.Duration) *ReceiptService {
	return &ReceiptService{
		secret: secret,
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}
}

// Enabled reports whether receipts can be issued.
func (s *ReceiptService) Enabled() bool {
	return s != nil && s.secret != ""
}

// Issue signs the result of a finished fight for user.
func (s *ReceiptService) Issue(userID, enemy string, result FightEndedPayload) (string, error) {
	if !s.Enabled() {
		return "", ErrReceiptsDisabled
	}
	if userID == "" {
		return "", fmt.Errorf("user is required")
	}
	if result.FightID == "" {
		return "", fmt.Errorf("fight id is required")
	}

	now := s.now()
	claims := jwt.MapClaims{
		"iss":    s.issuer,
		"sub":    userID,
		"iat":    now.Unix(),
		"exp":    now.Add(s.ttl).Unix(),
		"jti":    uuid.NewString(),
		"fight":  result.FightID,
		"enemy":  enemy,
		"winner": result.Winner,
		"turns":  result.Turns,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.secret))
}

// Verify checks a receipt's signature, issuer and expiry and returns its content.
func (s *ReceiptService) Verify(tokenString string) (Receipt, error) {
	if !s.Enabled() {
		return Receipt{}, ErrReceiptsDisabled
	}
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.secret), nil
	})
	if err != nil {
		return Receipt{}, fmt.Errorf("verify receipt: %w", err)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return Receipt{}, fmt.Errorf("verify receipt: invalid token")
	}
	if !claims.VerifyIssuer(s.issuer, true) {
		return Receipt{}, fmt.Errorf("verify receipt: unexpected issuer %v", claims["iss"])
	}

	r := Receipt{}
	r.FightID, _ = claims["fight"].(string)
	r.UserID, _ = claims["sub"].(string)
	r.Enemy, _ = claims["enemy"].(string)
	// JSON numbers decode as float64.
	if w, ok := claims["winner"].(float64); ok {
		r.Winner = int(w)
	}
	if n, ok := claims["turns"].(float64); ok {
		r.Turns = int(n)
	}
	return r, nil
}
