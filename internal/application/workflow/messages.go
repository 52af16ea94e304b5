package workflow

// Dialog texts of the form and the session gate
const (
	TitleConfirmLocation = "📍 Confirmar Ubicación"
	MsgConfirmLocation   = "Confirma que te encuentras físicamente en la tienda o local del cliente."

	TitleConfirmSend = "✉️ Confirmar Envío"
	MsgConfirmSend   = "Se enviará un correo con la siguiente información. ¿Deseas continuar?"

	TitleSuccess = "✅ ¡Éxito!"
	MsgSuccess   = "El registro se ha enviado correctamente."

	TitleConfirmLogout = "Confirmar Salida"
	MsgConfirmLogout   = "¿Estás seguro de que quieres salir? Se limpiarán todos los datos del formulario."

	MsgSessionNotVerified = "sesión no verificada"
)

// CoordinateDisplayPlaces is the rounding applied to coordinates in the send confirmation
const CoordinateDisplayPlaces = 4
