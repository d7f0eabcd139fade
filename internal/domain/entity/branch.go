package entity

import "time"

// Branch representa una sucursal de un tenant. El libro de stock solo la usa
// como clave de búsqueda; la administración de sucursales vive fuera del motor.
type Branch struct {
	ID        string
	TenantID  string
	Name      string
	CreatedAt time.Time
}
