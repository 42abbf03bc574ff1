package tier

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Unlimited marks a limit with no upper bound.
const Unlimited Quota = -1

const unlimitedText = "unlimited"

// Quota is a tier limit. Negative values other than Unlimited are invalid.
// In YAML and JSON it is either an integer or the string "unlimited".
type Quota int

func (q Quota) IsUnlimited() bool { return q == Unlimited }

// String renders Unlimited as "Unlimited".
func (q Quota) String() string {
	if q.IsUnlimited() {
		return "Unlimited"
	}
	return strconv.Itoa(int(q))
}

// Allows reports whether n items fit within the quota.
func (q Quota) Allows(n int) bool {
	return q.IsUnlimited() || n <= int(q)
}

// Cap returns min(q, n), treating Unlimited as no bound.
func (q Quota) Cap(n int) int {
	if q.IsUnlimited() || n < int(q) {
		return n
	}
	return int(q)
}

// Exceeds reports whether q is strictly greater than n.
func (q Quota) Exceeds(n int) bool {
	return q.IsUnlimited() || int(q) > n
}

// Less orders quotas with Unlimited above every finite value.
func (q Quota) Less(other Quota) bool {
	switch {
	case q == other:
		return false
	case q.IsUnlimited():
		return false
	case other.IsUnlimited():
		return true
	default:
		return q < other
	}
}

func parseQuota(s string) (Quota, error) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, unlimitedText) {
		return Unlimited, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: quota %q", ErrInvalidCatalog, s)
	}
	if n < 0 && Quota(n) != Unlimited {
		return 0, fmt.Errorf("%w: negative quota %d", ErrInvalidCatalog, n)
	}
	return Quota(n), nil
}

func (q *Quota) UnmarshalYAML(node *yaml.Node) error {
	v, err := parseQuota(node.Value)
	if err != nil {
		return err
	}
	*q = v
	return nil
}

func (q Quota) MarshalJSON() ([]byte, error) {
	if q.IsUnlimited() {
		return json.Marshal(unlimitedText)
	}
	return json.Marshal(int(q))
}

func (q *Quota) UnmarshalJSON(data []byte) error {
	v, err := parseQuota(strings.Trim(string(data), `"`))
	if err != nil {
		return err
	}
	*q = v
	return nil
}
