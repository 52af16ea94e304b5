package failure

// Dialog titles and messages shown to the salesperson
const (
	TitleIncompleteData = "Datos incompletos"
	MsgIncompleteData   = "Por favor, completa todos los campos y obtén la ubicación."

	TitleLocationError = "Error de Ubicación"
	MsgLocationError   = "No se pudo obtener la ubicación. Asegúrate de que tu GPS esté activado."

	TitlePermissionDenied = "Permiso denegado"
	MsgPermissionDenied   = "Se necesita permiso de ubicación para usar esta función."

	TitleSendError  = "❌ Error de Envío"
	MsgSendErrorFmt = "No se pudo enviar el registro: %s"
	MsgServerError  = "Ocurrió un error en el servidor."

	TitleInvalidNumber = "Número Inválido"
	MsgInvalidNumber   = "Por favor, ingresa tu número de teléfono a 10 dígitos."

	TitleAccessDenied = "Acceso Denegado"
	MsgAccessDenied   = "Este número no tiene permiso."

	TitleConnectionError = "Error de Conexión"
	MsgConnectionError   = "No se pudo verificar el usuario. Revisa tu conexión."

	MsgTooManyAttempts = "Demasiados intentos. Intenta de nuevo más tarde."
)

// Backend responses
const (
	MsgInvalidSubmissionFmt = "Datos del registro inválidos: %s"
	MsgDeliveryFailed       = "No se pudo entregar el correo del registro."
	MsgInvalidDateRange     = "Rango de fechas inválido."
)
