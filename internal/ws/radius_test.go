package ws

import "testing"

func TestRadiusRegistryDefault(t *testing.T) {
	r := NewRadiusRegistry(500)
	if got := r.Get("unknown"); got != 500 {
		t.Errorf("Get(unknown) = %v, want default 500", got)
	}
}

func TestRadiusRegistrySetAndGet(t *testing.T) {
	r := NewRadiusRegistry(500)
	r.Set("u1", 1200)
	if got := r.Get("u1"); got != 1200 {
		t.Errorf("Get(u1) = %v, want 1200", got)
	}
	if got := r.Get("u2"); got != 500 {
		t.Errorf("Get(u2) = %v, want default 500", got)
	}
}

func TestRadiusRegistryIgnoresNonPositive(t *testing.T) {
	r := NewRadiusRegistry(500)
	r.Set("u1", 0)
	r.Set("u1", -10)
	if got := r.Get("u1"); got != 500 {
		t.Errorf("Get(u1) = %v, want default after invalid sets", got)
	}
}

func TestRadiusRegistryZeroDefaultFallsBack(t *testing.T) {
	r := NewRadiusRegistry(0)
	if got := r.Get("u1"); got != 500 {
		t.Errorf("Get with zero default = %v, want 500", got)
	}
}
