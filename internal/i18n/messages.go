package i18n

import goi18n "github.com/nicksnyder/go-i18n/v2/i18n"

// Message IDs used by the form.
const (
	MsgTitle           = "title"
	MsgImageDir        = "image_dir"
	MsgAudioFile       = "audio_file"
	MsgOutputDir       = "output_dir"
	MsgOutputFile      = "output_file"
	MsgDuration        = "duration"
	MsgEndTime         = "end_time"
	MsgCreateSlideshow = "create_slideshow"
	MsgChangeLang      = "change_lang"
	MsgSelect          = "select"
	MsgAbout           = "about"
	MsgAboutText       = "about_text"
	MsgError           = "error"
	MsgNoImages        = "no_images"
	MsgInvalidNumber   = "invalid_number"
	MsgExit            = "exit"
	MsgExitConfirm     = "exit_confirm"
	MsgSuccess         = "success"
	MsgVideoCreated    = "video_created"
	MsgCreating        = "creating"
)

var spanish = []*goi18n.Message{
	{ID: MsgTitle, Other: "Creador de Slideshow"},
	{ID: MsgImageDir, Other: "Directorio de imágenes:"},
	{ID: MsgAudioFile, Other: "Archivo de audio:"},
	{ID: MsgOutputDir, Other: "Directorio de salida:"},
	{ID: MsgOutputFile, Other: "Archivo de salida:"},
	{ID: MsgDuration, Other: "Duración por imagen (segundos):"},
	{ID: MsgEndTime, Other: "Tiempo final del video (segundos):"},
	{ID: MsgCreateSlideshow, Other: "Crear Slideshow"},
	{ID: MsgChangeLang, Other: "Cambiar a Inglés"},
	{ID: MsgSelect, Other: "Seleccionar"},
	{ID: MsgAbout, Other: "Acerca de"},
	{ID: MsgAboutText, Other: "Esta aplicación fue creada por Enigma."},
	{ID: MsgError, Other: "Error"},
	{ID: MsgNoImages, Other: "No se encontraron imágenes en el directorio especificado."},
	{ID: MsgInvalidNumber, Other: "La duración y el tiempo final deben ser números enteros positivos."},
	{ID: MsgExit, Other: "Salir"},
	{ID: MsgExitConfirm, Other: "¿Quieres salir de la aplicación?"},
	{ID: MsgSuccess, Other: "Éxito"},
	{ID: MsgVideoCreated, Other: "El video se ha creado exitosamente."},
	{ID: MsgCreating, Other: "Creando el video..."},
}

var english = []*goi18n.Message{
	{ID: MsgTitle, Other: "Slideshow Creator"},
	{ID: MsgImageDir, Other: "Image Directory:"},
	{ID: MsgAudioFile, Other: "Audio File:"},
	{ID: MsgOutputDir, Other: "Output Directory:"},
	{ID: MsgOutputFile, Other: "Output File:"},
	{ID: MsgDuration, Other: "Duration per image (seconds):"},
	{ID: MsgEndTime, Other: "End time of the video (seconds):"},
	{ID: MsgCreateSlideshow, Other: "Create Slideshow"},
	{ID: MsgChangeLang, Other: "Change to Spanish"},
	{ID: MsgSelect, Other: "Select"},
	{ID: MsgAbout, Other: "About"},
	{ID: MsgAboutText, Other: "This application was created by Enigma."},
	{ID: MsgError, Other: "Error"},
	{ID: MsgNoImages, Other: "No images found in the specified directory."},
	{ID: MsgInvalidNumber, Other: "Duration and end time must be positive whole numbers."},
	{ID: MsgExit, Other: "Exit"},
	{ID: MsgExitConfirm, Other: "Do you want to exit the application?"},
	{ID: MsgSuccess, Other: "Success"},
	{ID: MsgVideoCreated, Other: "The video has been created successfully."},
	{ID: MsgCreating, Other: "Creating the video..."},
}
