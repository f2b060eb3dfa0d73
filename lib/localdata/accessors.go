package localdata

import "github.com/ValentinKolb/localdata/lib/db"

// --------------------------------------------------------------------------
// Typed Accessors
//
// Shorthands for Get and Set with the type parameter spelled out.
// --------------------------------------------------------------------------

func (l *LocalData) GetString(key string, def string) string {
	return Get(l, key, def)
}

func (l *LocalData) SetString(key string, value string) string {
	return Set(l, key, value)
}

func (l *LocalData) GetBool(key string, def bool) bool {
	return Get(l, key, def)
}

func (l *LocalData) SetBool(key string, value bool) bool {
	return Set(l, key, value)
}

func (l *LocalData) GetInt(key string, def int) int {
	return Get(l, key, def)
}

func (l *LocalData) SetInt(key string, value int) int {
	return Set(l, key, value)
}

func (l *LocalData) GetFloat(key string, def float64) float64 {
	return Get(l, key, def)
}

func (l *LocalData) SetFloat(key string, value float64) float64 {
	return Set(l, key, value)
}

func (l *LocalData) GetVector2(key string, def db.Vector2) db.Vector2 {
	return Get(l, key, def)
}

func (l *LocalData) SetVector2(key string, value db.Vector2) db.Vector2 {
	return Set(l, key, value)
}

func (l *LocalData) GetVector3(key string, def db.Vector3) db.Vector3 {
	return Get(l, key, def)
}

func (l *LocalData) SetVector3(key string, value db.Vector3) db.Vector3 {
	return Set(l, key, value)
}
